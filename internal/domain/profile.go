package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Profile — профиль пользователя. ID совпадает с идентичностью в auth-слое.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	// CaretakerPhone — телефон смотрителя; показывается публично,
	// если DisplayPhonePreference = caretaker
	CaretakerPhone         string          `json:"caretaker_phone,omitempty"`
	DisplayPhonePreference PhonePreference `json:"display_phone_preference"`
	IsVerified             bool            `json:"is_verified"`
	AvatarURL              string          `json:"avatar_url,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// Role — роль пользователя на площадке.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

// PhonePreference — какой телефон показывать публично.
type PhonePreference string

const (
	PhonePreferenceOwner     PhonePreference = "owner"
	PhonePreferenceCaretaker PhonePreference = "caretaker"
)

var (
	ErrEmptyName                  = errors.New("first and last name must not be empty")
	ErrUnknownRole                = errors.New("unknown role")
	ErrLandlordPhoneRequired      = errors.New("phone number is required for landlords")
	ErrCaretakerPhoneRequired     = errors.New("caretaker phone number is required when set as display preference")
	ErrUnknownPhonePreference     = errors.New("unknown display phone preference")
)

// ValidateRegistration проверяет профиль перед регистрацией.
// Все проверки выполняются ДО какой-либо записи в хранилище.
func (p Profile) ValidateRegistration() error {
	if p.FirstName == "" || p.LastName == "" {
		return ErrEmptyName
	}
	if !p.Role.Valid() {
		return ErrUnknownRole
	}
	switch p.DisplayPhonePreference {
	case PhonePreferenceOwner, PhonePreferenceCaretaker:
	default:
		return ErrUnknownPhonePreference
	}
	// Телефон обязателен для арендодателей
	if p.Role == RoleLandlord && p.Phone == "" {
		return ErrLandlordPhoneRequired
	}
	if p.DisplayPhonePreference == PhonePreferenceCaretaker && p.CaretakerPhone == "" {
		return ErrCaretakerPhoneRequired
	}
	return nil
}

// DisplayPhone возвращает телефон для публичного показа согласно предпочтению.
func (p Profile) DisplayPhone() string {
	if p.DisplayPhonePreference == PhonePreferenceCaretaker && p.CaretakerPhone != "" {
		return p.CaretakerPhone
	}
	return p.Phone
}

// ProfileFilter — фильтр для частичных обновлений профиля.
type ProfileFilter struct {
	FirstName              *string
	LastName               *string
	Phone                  *string
	CaretakerPhone         *string
	DisplayPhonePreference *PhonePreference
	AvatarURL              *string
	IsVerified             *bool
}
