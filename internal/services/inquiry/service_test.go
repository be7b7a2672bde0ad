package inquiry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
)

// MockInquiryRepository
type MockInquiryRepository struct {
	CreateWithFanoutFunc func(ctx context.Context, inquiry domain.Inquiry, notification domain.Notification) (uuid.UUID, error)

	fanoutCalls int
}

func (m *MockInquiryRepository) CreateWithFanout(ctx context.Context, inquiry domain.Inquiry, notification domain.Notification) (uuid.UUID, error) {
	m.fanoutCalls++
	if m.CreateWithFanoutFunc != nil {
		return m.CreateWithFanoutFunc(ctx, inquiry, notification)
	}
	return uuid.New(), nil
}
func (m *MockInquiryRepository) ListForReceiver(ctx context.Context, receiverID uuid.UUID) ([]domain.Inquiry, error) {
	return nil, nil
}
func (m *MockInquiryRepository) ListForSender(ctx context.Context, senderID uuid.UUID) ([]domain.Inquiry, error) {
	return nil, nil
}
func (m *MockInquiryRepository) MarkRead(ctx context.Context, inquiryID, receiverID uuid.UUID) error {
	return nil
}
func (m *MockInquiryRepository) UnreadCount(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	return 0, nil
}

// MockPropertyProvider
type MockPropertyProvider struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Property, error)
}

func (m *MockPropertyProvider) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return domain.Property{ID: id}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func validInquiry(propertyID, senderID uuid.UUID) domain.Inquiry {
	return domain.Inquiry{
		PropertyID:  propertyID,
		SenderID:    senderID,
		InquiryType: domain.InquiryTypeViewing,
		Subject:     "Viewing request",
		Message:     "Is the apartment available this Saturday?",
	}
}

func TestService_CreateInquiry_ReceiverDerivedFromProperty(t *testing.T) {
	propertyID := uuid.New()
	landlordID := uuid.New()
	senderID := uuid.New()

	var stored domain.Inquiry
	var storedNotification domain.Notification
	repo := &MockInquiryRepository{
		CreateWithFanoutFunc: func(ctx context.Context, inq domain.Inquiry, n domain.Notification) (uuid.UUID, error) {
			stored = inq
			storedNotification = n
			return uuid.New(), nil
		},
	}
	props := &MockPropertyProvider{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (domain.Property, error) {
			return domain.Property{ID: id, LandlordID: landlordID, Title: "Garden Cottage"}, nil
		},
	}

	svc := New(testLogger(), repo, props)

	// Попытка подменить получателя игнорируется
	inquiry := validInquiry(propertyID, senderID)
	inquiry.ReceiverID = uuid.New()

	if _, err := svc.CreateInquiry(context.Background(), inquiry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.ReceiverID != landlordID {
		t.Errorf("receiver must be the landlord, got %s", stored.ReceiverID)
	}
	if storedNotification.UserID != landlordID {
		t.Errorf("notification must target the landlord, got %s", storedNotification.UserID)
	}
	if storedNotification.Title != "New Property Inquiry" {
		t.Errorf("unexpected notification title %q", storedNotification.Title)
	}
	if storedNotification.Message != `You have a new inquiry for "Garden Cottage"` {
		t.Errorf("unexpected notification message %q", storedNotification.Message)
	}
	if storedNotification.RelatedPropertyID == nil || *storedNotification.RelatedPropertyID != propertyID {
		t.Error("notification must reference the property")
	}
}

func TestService_CreateInquiry_ValidationBeforeStore(t *testing.T) {
	repo := &MockInquiryRepository{}
	svc := New(testLogger(), repo, &MockPropertyProvider{})

	cases := []struct {
		name    string
		mutate  func(*domain.Inquiry)
		wantErr error
	}{
		{"empty subject", func(i *domain.Inquiry) { i.Subject = "" }, domain.ErrEmptySubject},
		{"empty message", func(i *domain.Inquiry) { i.Message = "" }, domain.ErrEmptyMessage},
		{"unknown type", func(i *domain.Inquiry) { i.InquiryType = "complaint" }, domain.ErrUnknownInquiryType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inquiry := validInquiry(uuid.New(), uuid.New())
			tc.mutate(&inquiry)

			_, err := svc.CreateInquiry(context.Background(), inquiry)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if repo.fanoutCalls != 0 {
		t.Errorf("store must not be touched on validation failure, got %d calls", repo.fanoutCalls)
	}
}

func TestService_CreateInquiry_OwnPropertyRejected(t *testing.T) {
	landlordID := uuid.New()
	repo := &MockInquiryRepository{}
	props := &MockPropertyProvider{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (domain.Property, error) {
			return domain.Property{ID: id, LandlordID: landlordID}, nil
		},
	}

	svc := New(testLogger(), repo, props)

	_, err := svc.CreateInquiry(context.Background(), validInquiry(uuid.New(), landlordID))
	if !errors.Is(err, ErrOwnProperty) {
		t.Errorf("expected ErrOwnProperty, got %v", err)
	}
	if repo.fanoutCalls != 0 {
		t.Error("store must not be touched when sender owns the property")
	}
}

func TestService_CreateInquiry_MissingProperty(t *testing.T) {
	props := &MockPropertyProvider{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (domain.Property, error) {
			return domain.Property{}, repository.ErrPropertyNotFound
		},
	}

	svc := New(testLogger(), &MockInquiryRepository{}, props)

	_, err := svc.CreateInquiry(context.Background(), validInquiry(uuid.New(), uuid.New()))
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestService_CreateInquiry_FanoutFailurePropagates(t *testing.T) {
	storeErr := errors.New("tx aborted")
	repo := &MockInquiryRepository{
		CreateWithFanoutFunc: func(ctx context.Context, inq domain.Inquiry, n domain.Notification) (uuid.UUID, error) {
			return uuid.Nil, storeErr
		},
	}

	svc := New(testLogger(), repo, &MockPropertyProvider{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (domain.Property, error) {
			return domain.Property{ID: id, LandlordID: uuid.New()}, nil
		},
	})

	_, err := svc.CreateInquiry(context.Background(), validInquiry(uuid.New(), uuid.New()))
	if !errors.Is(err, storeErr) {
		t.Errorf("expected store error, got %v", err)
	}
}
