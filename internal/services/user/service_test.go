package user

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository
type MockUserRepository struct {
	CreateProfileFunc func(ctx context.Context, profile domain.Profile, passwordHash []byte) (uuid.UUID, error)
	GetByEmailFunc    func(ctx context.Context, email string) (domain.Profile, []byte, error)

	createCalls int
}

func (m *MockUserRepository) CreateProfile(ctx context.Context, profile domain.Profile, passwordHash []byte) (uuid.UUID, error) {
	m.createCalls++
	if m.CreateProfileFunc != nil {
		return m.CreateProfileFunc(ctx, profile, passwordHash)
	}
	return uuid.New(), nil
}
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	return domain.Profile{ID: id}, nil
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (domain.Profile, []byte, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return domain.Profile{}, nil, repository.ErrProfileNotFound
}
func (m *MockUserRepository) UpdateProfile(ctx context.Context, profileID uuid.UUID, update domain.ProfileFilter) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestService(repo UserRepository) *Service {
	return New(testLogger(), repo, nil, "test-secret", time.Hour)
}

// MockNotifier
type MockNotifier struct {
	notifications chan domain.Notification
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) (uuid.UUID, error) {
	m.notifications <- n
	return uuid.New(), nil
}

func tenantProfile() domain.Profile {
	return domain.Profile{
		Email:                  "amina@example.com",
		FirstName:              "Amina",
		LastName:               "Odhiambo",
		Role:                   domain.RoleTenant,
		DisplayPhonePreference: domain.PhonePreferenceOwner,
	}
}

func TestService_Register_LandlordWithoutPhoneRejected(t *testing.T) {
	repo := &MockUserRepository{}
	svc := newTestService(repo)

	profile := tenantProfile()
	profile.Role = domain.RoleLandlord
	profile.Phone = ""

	_, err := svc.Register(context.Background(), profile, "secret123")
	if !errors.Is(err, domain.ErrLandlordPhoneRequired) {
		t.Errorf("expected ErrLandlordPhoneRequired, got %v", err)
	}
	// Валидация срабатывает до записи в хранилище
	if repo.createCalls != 0 {
		t.Errorf("store must not be touched on validation failure, got %d calls", repo.createCalls)
	}
}

func TestService_Register_CaretakerPreferenceRequiresPhone(t *testing.T) {
	repo := &MockUserRepository{}
	svc := newTestService(repo)

	profile := tenantProfile()
	profile.DisplayPhonePreference = domain.PhonePreferenceCaretaker
	profile.CaretakerPhone = ""

	_, err := svc.Register(context.Background(), profile, "secret123")
	if !errors.Is(err, domain.ErrCaretakerPhoneRequired) {
		t.Errorf("expected ErrCaretakerPhoneRequired, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Error("store must not be touched on validation failure")
	}
}

func TestService_Register_HashesPassword(t *testing.T) {
	var gotHash []byte
	repo := &MockUserRepository{
		CreateProfileFunc: func(ctx context.Context, profile domain.Profile, passwordHash []byte) (uuid.UUID, error) {
			gotHash = passwordHash
			return uuid.New(), nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), tenantProfile(), "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword(gotHash, []byte("secret123")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
}

func TestService_Register_EmailTaken(t *testing.T) {
	repo := &MockUserRepository{
		CreateProfileFunc: func(ctx context.Context, profile domain.Profile, passwordHash []byte) (uuid.UUID, error) {
			return uuid.Nil, repository.ErrEmailTaken
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), tenantProfile(), "secret123")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_Register_SendsWelcomeNotification(t *testing.T) {
	userID := uuid.New()
	repo := &MockUserRepository{
		CreateProfileFunc: func(ctx context.Context, profile domain.Profile, passwordHash []byte) (uuid.UUID, error) {
			return userID, nil
		},
	}
	notifier := &MockNotifier{notifications: make(chan domain.Notification, 1)}
	svc := New(testLogger(), repo, notifier, "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), tenantProfile(), "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case n := <-notifier.notifications:
		if n.UserID != userID {
			t.Errorf("notification addressed to %s, want %s", n.UserID, userID)
		}
		if n.Title != "Welcome to RentKenya" {
			t.Errorf("unexpected title %q", n.Title)
		}
		if n.Type != "info" {
			t.Errorf("unexpected type %q", n.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("welcome notification was not sent")
	}
}

func TestService_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (domain.Profile, []byte, error) {
			return domain.Profile{ID: uuid.New(), Email: email}, hash, nil
		},
	}
	svc := newTestService(repo)

	_, _, err := svc.Login(context.Background(), "amina@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_Login_UnknownUserSameError(t *testing.T) {
	svc := newTestService(&MockUserRepository{})

	// Несуществующий email даёт ту же ошибку, что и неверный пароль
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_Login_IssuesToken(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	profileID := uuid.New()
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (domain.Profile, []byte, error) {
			return domain.Profile{ID: profileID, Email: email, Role: domain.RoleTenant}, hash, nil
		},
	}
	svc := newTestService(repo)

	token, profile, err := svc.Login(context.Background(), "amina@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if profile.ID != profileID {
		t.Errorf("expected profile %s, got %s", profileID, profile.ID)
	}
}
