package vendors

import (
	"context"

	"log/slog"

	"github.com/google/uuid"
)

// Notifier delivers vendor lifecycle notifications. Delivery happens out of
// band; a notification failure never fails the state transition itself.
type Notifier interface {
	VendorApproved(ctx context.Context, email, businessName string) error
	VendorSuspended(ctx context.Context, email, businessName string) error
}

// Service handles vendor business logic.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Create registers a new vendor profile in the pending state.
func (s *Service) Create(ctx context.Context, vendor *Vendor) (*Vendor, error) {
	vendor.ID = uuid.NewString()
	vendor.Status = StatusPending
	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Get fetches a vendor profile.
func (s *Service) Get(ctx context.Context, id string) (*Vendor, error) {
	return s.repo.GetByID(ctx, id)
}

// Approve transitions a vendor to approved and queues the approval notice.
func (s *Service) Approve(ctx context.Context, id string) (*Vendor, error) {
	vendor, err := s.repo.UpdateStatus(ctx, id, StatusApproved)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.VendorApproved(ctx, vendor.Email, vendor.BusinessName); err != nil && s.logger != nil {
			s.logger.Warn("queue approval notice", slog.Any("error", err))
		}
	}
	return vendor, nil
}

// Suspend transitions a vendor to suspended and queues the suspension notice.
func (s *Service) Suspend(ctx context.Context, id string) (*Vendor, error) {
	vendor, err := s.repo.UpdateStatus(ctx, id, StatusSuspended)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.VendorSuspended(ctx, vendor.Email, vendor.BusinessName); err != nil && s.logger != nil {
			s.logger.Warn("queue suspension notice", slog.Any("error", err))
		}
	}
	return vendor, nil
}
