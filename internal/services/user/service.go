package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rentkenya/internal/domain"
	"rentkenya/internal/lib/jwtauth"
	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	CreateProfile(ctx context.Context, profile domain.Profile, passwordHash []byte) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (domain.Profile, []byte, error)
	UpdateProfile(ctx context.Context, profileID uuid.UUID, update domain.ProfileFilter) error
}

// Notifier доставляет внетранзакционные уведомления пользователю.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) (uuid.UUID, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmptyEmail         = errors.New("email must not be empty")
	ErrEmptyPassword      = errors.New("password must not be empty")
)

type Service struct {
	log      *slog.Logger
	repo     UserRepository
	notifier Notifier
	secret   string
	tokenTTL time.Duration
}

func New(log *slog.Logger, repo UserRepository, notifier Notifier, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		notifier: notifier,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register — регистрирует нового пользователя.
// Вся валидация профиля выполняется до обращения к хранилищу.
func (s *Service) Register(ctx context.Context, profile domain.Profile, password string) (uuid.UUID, error) {
	const op = "user.Service.Register"
	log := s.log.With(slog.String("op", op), slog.String("email", profile.Email))

	if profile.Email == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmptyEmail)
	}
	if password == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}
	if err := profile.ValidateRegistration(); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateProfile(ctx, profile, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			log.Warn("email already registered")
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		log.Error("failed to create profile", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", id.String()))

	// Приветственное уведомление не блокирует регистрацию
	if s.notifier != nil {
		go func() {
			welcome := domain.Notification{
				UserID:  id,
				Title:   "Welcome to RentKenya",
				Message: fmt.Sprintf("Hi %s, your account is ready. Start browsing properties or list your own.", profile.FirstName),
				Type:    "info",
			}
			if _, err := s.notifier.Notify(context.Background(), welcome); err != nil {
				log.Warn("failed to send welcome notification", sl.Err(err))
			}
		}()
	}

	return id, nil
}

// Login — проверяет учётные данные и выдаёт JWT.
func (s *Service) Login(ctx context.Context, email, password string) (string, domain.Profile, error) {
	const op = "user.Service.Login"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	profile, hash, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			log.Warn("user not found")
			return "", domain.Profile{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))
		return "", domain.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		log.Warn("password mismatch")
		return "", domain.Profile{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := jwtauth.NewToken(profile, s.secret, s.tokenTTL)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return "", domain.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("user_id", profile.ID.String()))
	return token, profile, nil
}

// GetProfile — получает профиль по ID.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	const op = "user.Service.GetProfile"

	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return domain.Profile{}, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		s.log.Error("failed to get profile", sl.Err(err))
		return domain.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return profile, nil
}

// UpdateProfile — частичное обновление профиля пользователя.
func (s *Service) UpdateProfile(ctx context.Context, profileID uuid.UUID, update domain.ProfileFilter) (domain.Profile, error) {
	const op = "user.Service.UpdateProfile"

	if err := s.repo.UpdateProfile(ctx, profileID, update); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return domain.Profile{}, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		s.log.Error("failed to update profile", sl.Err(err))
		return domain.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%s: failed to fetch updated profile: %w", op, err)
	}

	return updated, nil
}
