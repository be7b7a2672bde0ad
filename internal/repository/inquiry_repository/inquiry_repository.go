package inquiry_repository

import (
	"context"
	"fmt"
	"log/slog"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InquiryRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewInquiryRepository(db *pgxpool.Pool, log *slog.Logger) *InquiryRepository {
	return &InquiryRepository{db: db, log: log}
}

// CreateWithFanout выполняет все три записи одного обращения в одной транзакции:
// вставка обращения, атомарный инкремент счётчика обращений объекта,
// уведомление арендодателю. Либо все три применяются, либо ни одной.
func (r *InquiryRepository) CreateWithFanout(ctx context.Context, inquiry domain.Inquiry, notification domain.Notification) (uuid.UUID, error) {
	const op = "InquiryRepository.CreateWithFanout"

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO inquiries (property_id, sender_id, receiver_id, inquiry_type, subject, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING inquiry_id
	`,
		inquiry.PropertyID,
		inquiry.SenderID,
		inquiry.ReceiverID,
		inquiry.InquiryType.String(),
		inquiry.Subject,
		inquiry.Message,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: insert inquiry: %w", op, err)
	}

	if _, err := tx.Exec(ctx, "SELECT increment_inquiry_count($1)", inquiry.PropertyID); err != nil {
		return uuid.Nil, fmt.Errorf("%s: increment count: %w", op, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO notifications (user_id, title, message, type, related_property_id)
		VALUES ($1, $2, $3, $4, $5)
	`,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.RelatedPropertyID,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: insert notification: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return id, nil
}

const inquiryColumns = `
	inquiry_id, property_id, sender_id, receiver_id, inquiry_type,
	subject, message, is_read, created_at
`

func (r *InquiryRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]domain.Inquiry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var inquiries []domain.Inquiry
	for rows.Next() {
		var i domain.Inquiry
		var typeStr string
		if err := rows.Scan(
			&i.ID,
			&i.PropertyID,
			&i.SenderID,
			&i.ReceiverID,
			&typeStr,
			&i.Subject,
			&i.Message,
			&i.IsRead,
			&i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		i.InquiryType = domain.InquiryType(typeStr)
		inquiries = append(inquiries, i)
	}

	return inquiries, rows.Err()
}

// ListForReceiver — входящие обращения (для арендодателя).
func (r *InquiryRepository) ListForReceiver(ctx context.Context, receiverID uuid.UUID) ([]domain.Inquiry, error) {
	const op = "InquiryRepository.ListForReceiver"

	query := `SELECT` + inquiryColumns + `FROM inquiries WHERE receiver_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, op, query, receiverID)
}

// ListForSender — отправленные обращения (для арендатора).
func (r *InquiryRepository) ListForSender(ctx context.Context, senderID uuid.UUID) ([]domain.Inquiry, error) {
	const op = "InquiryRepository.ListForSender"

	query := `SELECT` + inquiryColumns + `FROM inquiries WHERE sender_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, op, query, senderID)
}

// MarkRead помечает обращение прочитанным. Флаг меняет только получатель.
func (r *InquiryRepository) MarkRead(ctx context.Context, inquiryID, receiverID uuid.UUID) error {
	const op = "InquiryRepository.MarkRead"

	query := `UPDATE inquiries SET is_read = TRUE WHERE inquiry_id = $1 AND receiver_id = $2`

	tag, err := r.db.Exec(ctx, query, inquiryID, receiverID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrInquiryNotFound)
	}

	return nil
}

// UnreadCount — число непрочитанных входящих обращений.
func (r *InquiryRepository) UnreadCount(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	const op = "InquiryRepository.UnreadCount"

	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM inquiries WHERE receiver_id = $1 AND is_read = FALSE`,
		receiverID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
