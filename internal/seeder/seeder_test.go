package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/webshop-labs/order-intake/internal/service/models/product"
	"github.com/webshop-labs/order-intake/internal/service/models/user"
)

// fakeUserRepo enforces the email unique constraint like the real table.
type fakeUserRepo struct {
	users []user.User
}

func (f *fakeUserRepo) Insert(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return user.User{}, errors.New(`duplicate key value violates unique constraint "users_email_key"`)
		}
	}
	u.ID = int64(len(f.users)) + 1
	f.users = append(f.users, u)

	return u, nil
}

type fakeProductRepo struct {
	insertErr error
	products  []product.Product
}

func (f *fakeProductRepo) BulkInsert(_ context.Context, ps []product.Product) ([]product.Product, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	for i := range ps {
		ps[i].ID = int64(len(f.products)) + int64(i) + 1
	}
	f.products = append(f.products, ps...)

	return ps, nil
}

func TestSeeder_Run(t *testing.T) {
	t.Parallel()

	users := &fakeUserRepo{}
	products := &fakeProductRepo{}
	s := NewSeeder(users, products)

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, users.users, 1)
	admin := users.users[0]
	assert.Equal(t, "Admin", admin.Name)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("123456")))

	require.Len(t, products.products, 4)
	want := map[string]float64{
		"iPhone 15":          999.99,
		"Samsung Galaxy S24": 899.99,
		"OnePlus 12":         749.99,
		"Google Pixel 9":     799.99,
	}
	for _, p := range products.products {
		price, ok := want[p.Name]
		require.True(t, ok, "unexpected product %q", p.Name)
		assert.InDelta(t, price, p.Price, 0.001)
	}
}

func TestSeeder_SecondRunFailsOnDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := &fakeUserRepo{}
	products := &fakeProductRepo{}
	s := NewSeeder(users, products)

	require.NoError(t, s.Run(context.Background()))

	err := s.Run(context.Background())
	require.Error(t, err, "the seeder is a single-run bootstrap tool")
	assert.Contains(t, err.Error(), "unique constraint")

	// First run's data is untouched.
	assert.Len(t, users.users, 1)
	assert.Len(t, products.products, 4)
}

func TestSeeder_PartialFailureLeavesPartialData(t *testing.T) {
	t.Parallel()

	users := &fakeUserRepo{}
	products := &fakeProductRepo{insertErr: errors.New("relation does not exist")}
	s := NewSeeder(users, products)

	err := s.Run(context.Background())
	require.Error(t, err)

	assert.Len(t, users.users, 1, "user insert is not rolled back when products fail")
	assert.Empty(t, products.products)
}
