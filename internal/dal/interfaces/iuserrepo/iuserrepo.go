package iuserrepo

import (
	"context"

	"github.com/webshop-labs/order-intake/internal/service/models/user"
)

// IUserRepository is an interface for the user postgres repository.
type IUserRepository interface {
	Insert(ctx context.Context, u user.User) (user.User, error)
}
