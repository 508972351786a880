package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"connect/internal/pkg/jwt"
	"connect/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct {
	users       map[uuid.UUID]repository.User
	emailExists bool
	byEmail     repository.User
	byEmailErr  error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: map[uuid.UUID]repository.User{}}
}

func (m *mockUserStore) Create(_ context.Context, u repository.User) error {
	m.users[u.ID] = u
	return nil
}
func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := m.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}
func (m *mockUserStore) GetByEmail(context.Context, string) (repository.User, error) {
	return m.byEmail, m.byEmailErr
}
func (m *mockUserStore) ExistsByEmail(context.Context, string) (bool, error) {
	return m.emailExists, nil
}
func (m *mockUserStore) ExistsByID(context.Context, uuid.UUID) (bool, error) { return true, nil }
func (m *mockUserStore) UpdateProfile(_ context.Context, u repository.User) (repository.User, error) {
	return u, nil
}

func newTestJWT() jwt.Service {
	return jwt.NewHMACService("test-access", "test-refresh", 15*time.Minute, 7*24*time.Hour)
}

func TestRegister_Success(t *testing.T) {
	store := newMockUserStore()
	uc := NewAuthUsecase(store, newTestJWT())

	usr, access, refresh, err := uc.Register(context.Background(), RegisterInput{
		Email:    "  Ana@Example.COM ",
		Password: "hunter2hunter2",
		Name:     "Ana",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if usr.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %s", usr.Email)
	}
	if usr.PasswordHash != "" {
		t.Fatalf("password hash must not leave the usecase")
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens")
	}

	stored := store.users[usr.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")) != nil {
		t.Fatalf("stored hash does not match password")
	}
}

func TestRegister_Validation(t *testing.T) {
	uc := NewAuthUsecase(newMockUserStore(), newTestJWT())

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: "hunter2hunter2", Name: "Ana"}},
		{"short password", RegisterInput{Email: "a@b.com", Password: "short", Name: "Ana"}},
		{"empty name", RegisterInput{Email: "a@b.com", Password: "hunter2hunter2", Name: "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, _, err := uc.Register(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMockUserStore()
	store.emailExists = true
	uc := NewAuthUsecase(store, newTestJWT())

	_, _, _, err := uc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Password: "hunter2hunter2",
		Name:     "Ana",
	})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	store := newMockUserStore()
	store.byEmail = repository.User{ID: uuid.New(), Email: "a@b.com", PasswordHash: string(hash)}
	uc := NewAuthUsecase(store, newTestJWT())

	_, _, _, err := uc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	store := newMockUserStore()
	store.byEmailErr = repository.ErrUserNotFound
	uc := NewAuthUsecase(store, newTestJWT())

	_, _, _, err := uc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc := newTestJWT()
	store := newMockUserStore()
	usr := repository.User{ID: uuid.New()}
	store.users[usr.ID] = usr
	uc := NewAuthUsecase(store, svc)

	access, err := svc.GenerateAccessToken(usr.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, _, err := uc.Refresh(context.Background(), access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRefresh_Success(t *testing.T) {
	svc := newTestJWT()
	store := newMockUserStore()
	usr := repository.User{ID: uuid.New()}
	store.users[usr.ID] = usr
	uc := NewAuthUsecase(store, svc)

	refresh, err := svc.GenerateRefreshToken(usr.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	access, newRefresh, err := uc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if access == "" || newRefresh == "" {
		t.Fatalf("expected rotated token pair")
	}
}
