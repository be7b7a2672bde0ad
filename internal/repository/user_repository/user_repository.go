package user_repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewUserRepository(db *pgxpool.Pool, log *slog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

// CreateProfile — сохраняет профиль вместе с хешем пароля.
func (r *UserRepository) CreateProfile(ctx context.Context, profile domain.Profile, passwordHash []byte) (uuid.UUID, error) {
	const op = "UserRepository.CreateProfile"

	query := `
		INSERT INTO profiles (
			email, password_hash, first_name, last_name, role,
			phone, caretaker_phone, display_phone_preference
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING profile_id
	`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		profile.Email,
		passwordHash,
		profile.FirstName,
		profile.LastName,
		profile.Role.String(),
		profile.Phone,
		profile.CaretakerPhone,
		string(profile.DisplayPhonePreference),
	).Scan(&id)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, repository.ErrEmailTaken)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

const profileColumns = `
	profile_id, email, first_name, last_name, role,
	phone, caretaker_phone, display_phone_preference,
	is_verified, avatar_url, created_at, updated_at
`

func scanProfile(row pgx.Row, extra ...interface{}) (domain.Profile, error) {
	var p domain.Profile
	var roleStr, prefStr string
	dest := []interface{}{
		&p.ID,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&roleStr,
		&p.Phone,
		&p.CaretakerPhone,
		&prefStr,
		&p.IsVerified,
		&p.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Profile{}, err
	}
	p.Role = domain.Role(roleStr)
	p.DisplayPhonePreference = domain.PhonePreference(prefStr)
	return p, nil
}

// GetByID — получает профиль по ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	const op = "UserRepository.GetByID"

	query := `SELECT` + profileColumns + `FROM profiles WHERE profile_id = $1`

	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, fmt.Errorf("%s: %w", op, repository.ErrProfileNotFound)
		}
		return domain.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// GetByEmail — получает профиль и хеш пароля по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.Profile, []byte, error) {
	const op = "UserRepository.GetByEmail"

	query := `SELECT` + profileColumns + `, password_hash FROM profiles WHERE email = $1`

	var passwordHash []byte
	p, err := scanProfile(r.db.QueryRow(ctx, query, email), &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, nil, fmt.Errorf("%s: %w", op, repository.ErrProfileNotFound)
		}
		return domain.Profile{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, passwordHash, nil
}

// UpdateProfile — частичное обновление профиля.
func (r *UserRepository) UpdateProfile(ctx context.Context, profileID uuid.UUID, update domain.ProfileFilter) error {
	const op = "UserRepository.UpdateProfile"

	setClauses := []string{}
	params := []interface{}{}
	paramCount := 1

	if update.FirstName != nil {
		setClauses = append(setClauses, fmt.Sprintf("first_name = $%d", paramCount))
		params = append(params, *update.FirstName)
		paramCount++
	}
	if update.LastName != nil {
		setClauses = append(setClauses, fmt.Sprintf("last_name = $%d", paramCount))
		params = append(params, *update.LastName)
		paramCount++
	}
	if update.Phone != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone = $%d", paramCount))
		params = append(params, *update.Phone)
		paramCount++
	}
	if update.CaretakerPhone != nil {
		setClauses = append(setClauses, fmt.Sprintf("caretaker_phone = $%d", paramCount))
		params = append(params, *update.CaretakerPhone)
		paramCount++
	}
	if update.DisplayPhonePreference != nil {
		setClauses = append(setClauses, fmt.Sprintf("display_phone_preference = $%d", paramCount))
		params = append(params, string(*update.DisplayPhonePreference))
		paramCount++
	}
	if update.AvatarURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("avatar_url = $%d", paramCount))
		params = append(params, *update.AvatarURL)
		paramCount++
	}
	if update.IsVerified != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_verified = $%d", paramCount))
		params = append(params, *update.IsVerified)
		paramCount++
	}

	if len(setClauses) == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNoFieldsToUpdate)
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE profile_id = $%d`, strings.Join(setClauses, ", "), paramCount)
	params = append(params, profileID)

	tag, err := r.db.Exec(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrProfileNotFound)
	}

	return nil
}
