package auth

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

type memUserStore struct {
	byEmail map[string]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byEmail: make(map[string]*domain.User)}
}

func (m *memUserStore) Create(_ context.Context, user *domain.User) error {
	key := strings.ToLower(user.Email)
	if _, ok := m.byEmail[key]; ok {
		return store.ErrEmailExists
	}
	m.byEmail[key] = user
	return nil
}

func (m *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStore) WithTx(*sql.Tx) store.UserStore { return m }

func newAuthService(t *testing.T, users store.UserStore) Service {
	t.Helper()

	tokens, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(users, NewBcryptHasher(), tokens, log)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user with hashed password and issues a token", func(t *testing.T) {
		t.Parallel()

		users := newMemUserStore()
		svc := newAuthService(t, users)

		user, token, err := svc.Register(context.Background(), "ada@example.com", "correct-horse-battery")
		require.NoError(t, err)

		assert.NotEmpty(t, token)
		assert.Empty(t, user.Password)
		assert.NotEmpty(t, user.HashedPassword)
		assert.NotEqual(t, "correct-horse-battery", user.HashedPassword)

		stored, err := users.GetByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()

		users := newMemUserStore()
		svc := newAuthService(t, users)

		_, _, err := svc.Register(context.Background(), "ada@example.com", "correct-horse-battery")
		require.NoError(t, err)

		_, _, err = svc.Register(context.Background(), "ada@example.com", "another-long-password")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		t.Parallel()

		svc := newAuthService(t, newMemUserStore())

		_, _, err := svc.Register(context.Background(), "ada@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()

		svc := newAuthService(t, newMemUserStore())

		_, _, err := svc.Register(context.Background(), "not-an-email", "correct-horse-battery")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		users := newMemUserStore()
		svc := newAuthService(t, users)

		registered, _, err := svc.Register(context.Background(), "ada@example.com", "correct-horse-battery")
		require.NoError(t, err)

		user, token, err := svc.Login(context.Background(), "ada@example.com", "correct-horse-battery")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		users := newMemUserStore()
		svc := newAuthService(t, users)

		_, _, err := svc.Register(context.Background(), "ada@example.com", "correct-horse-battery")
		require.NoError(t, err)

		_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong-password-entirely")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email looks identical to wrong password", func(t *testing.T) {
		t.Parallel()

		svc := newAuthService(t, newMemUserStore())

		_, _, err := svc.Login(context.Background(), "nobody@example.com", "correct-horse-battery")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
