// Package helpers provides data seeding helpers used in integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/go-petr/peerpay/internal/domain"
	"github.com/go-petr/peerpay/internal/userrepo"
	"github.com/go-petr/peerpay/pkg/dbpkg"
	"github.com/go-petr/peerpay/pkg/passpkg"
	"github.com/go-petr/peerpay/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// SeedUser creates a user with zero balance.
func SeedUser(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	require.NoError(t, err)

	arg := domain.CreateUserParams{
		ID:             uuid.New(),
		Email:          randompkg.Email(),
		HashedPassword: hashedPassword,
	}

	user, err := userrepo.NewRepoPGS(db).Create(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, "0", user.Balance)

	return user
}

// SeedUserWithBalance creates a user and sets the starting balance
// directly, without going through the ledger.
func SeedUserWithBalance(t *testing.T, db dbpkg.SQLInterface, balance string) domain.User {
	t.Helper()

	user := SeedUser(t, db)

	const query = `
	UPDATE users
	SET balance = $1
	WHERE id = $2
	RETURNING balance`

	err := db.QueryRowContext(context.Background(), query, balance, user.ID).Scan(&user.Balance)
	require.NoError(t, err)

	return user
}
