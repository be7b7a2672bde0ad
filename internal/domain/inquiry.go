package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Inquiry — обращение арендатора к арендодателю по конкретному объекту.
// Получатель всегда владелец объекта; флаг прочтения меняет только получатель.
type Inquiry struct {
	ID          uuid.UUID   `json:"id"`
	PropertyID  uuid.UUID   `json:"property_id"`
	SenderID    uuid.UUID   `json:"sender_id"`
	ReceiverID  uuid.UUID   `json:"receiver_id"`
	InquiryType InquiryType `json:"inquiry_type"`
	Subject     string      `json:"subject"`
	Message     string      `json:"message"`
	IsRead      bool        `json:"is_read"`
	CreatedAt   time.Time   `json:"created_at"`
}

// InquiryType — тип обращения.
type InquiryType string

const (
	InquiryTypeGeneral     InquiryType = "general"
	InquiryTypeViewing     InquiryType = "viewing"
	InquiryTypeApplication InquiryType = "application"
)

func (t InquiryType) String() string {
	return string(t)
}

func (t InquiryType) Valid() bool {
	switch t {
	case InquiryTypeGeneral, InquiryTypeViewing, InquiryTypeApplication:
		return true
	}
	return false
}

var (
	ErrEmptySubject       = errors.New("subject must not be empty")
	ErrEmptyMessage       = errors.New("message must not be empty")
	ErrUnknownInquiryType = errors.New("unknown inquiry type")
)

// Validate проверяет обращение до каких-либо записей в хранилище.
func (i Inquiry) Validate() error {
	if i.Subject == "" {
		return ErrEmptySubject
	}
	if i.Message == "" {
		return ErrEmptyMessage
	}
	if !i.InquiryType.Valid() {
		return ErrUnknownInquiryType
	}
	return nil
}

// Notification — уведомление пользователю.
type Notification struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	Title             string     `json:"title"`
	Message           string     `json:"message"`
	Type              string     `json:"type"`
	RelatedPropertyID *uuid.UUID `json:"related_property_id,omitempty"`
	IsRead            bool       `json:"is_read"`
	CreatedAt         time.Time  `json:"created_at"`
}
