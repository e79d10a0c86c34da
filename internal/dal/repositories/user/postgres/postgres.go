package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/webshop-labs/order-intake/internal/dal/postgres"
	"github.com/webshop-labs/order-intake/internal/service/models/user"
)

// UserDal represents the user data access layer model.
type UserDal struct {
	Id           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ToModel converts UserDal to the service layer User model.
func (u *UserDal) ToModel() *user.User {
	return &user.User{
		ID:           u.Id,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// PostgresUserRepository represents a Postgres user repository.
type PostgresUserRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresUserRepository creates a new Postgres user repository.
func NewPostgresUserRepository(conn postgres.GenericConn) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert inserts one user and returns it with the assigned id.
// The users.email unique constraint is surfaced as-is: inserting a
// duplicate email fails.
func (r *PostgresUserRepository) Insert(ctx context.Context, u user.User) (user.User, error) {
	sql, args, err := r.sb.
		Insert("users").
		Columns("name", "email", "password_hash", "created_at", "updated_at").
		Values(u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING id, name, email, password_hash, created_at, updated_at").
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal UserDal
	err = r.conn.QueryRow(ctx, sql, args...).Scan(
		&dal.Id,
		&dal.Name,
		&dal.Email,
		&dal.PasswordHash,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return *dal.ToModel(), nil
}
