package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/beaware-fyi/beaware-api/internal/pkg/id"
	"github.com/beaware-fyi/beaware-api/internal/pkg/normalize"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldIsVerified = "is_verified"
	fieldVerifiedBy = "verified_by"
	fieldVerifiedAt = "verified_at"
)

type Service interface {
	Create(ctx context.Context, reporterID string, req domain.CreateScamReportRequest) (*domain.ScamReport, error)
	Get(ctx context.Context, reportID string) (*domain.ScamReport, error)
	List(ctx context.Context, scamType string, limit int, cursor string) ([]domain.ScamReport, string, error)
	Verify(ctx context.Context, reportID, adminID string) (*domain.ScamReport, error)
}

type reportStore interface {
	Put(ctx context.Context, r *domain.ScamReport) error
	Get(ctx context.Context, reportID string) (*domain.ScamReport, error)
	ScanPage(ctx context.Context, scamType string, limit int32, cursor string) ([]domain.ScamReport, string, error)
	Update(ctx context.Context, reportID string, updates map[string]interface{}) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

type alertPublisher interface {
	PublishReportAlert(ctx context.Context, r *domain.ScamReport) error
}

type service struct {
	repo      reportStore
	notifRepo notificationStore
	alerts    alertPublisher
}

type ServiceDeps struct {
	ReportRepo       reportStore
	NotificationRepo notificationStore
	// Alerts may be nil; report creation then skips moderation alerting.
	Alerts alertPublisher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:      deps.ReportRepo,
		notifRepo: deps.NotificationRepo,
		alerts:    deps.Alerts,
	}
}

func (s *service) Create(ctx context.Context, reporterID string, req domain.CreateScamReportRequest) (*domain.ScamReport, error) {
	if err := checkIdentifierFields(req); err != nil {
		return nil, err
	}
	r := &domain.ScamReport{
		ReportID:     id.New(),
		ScamType:     req.ScamType,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		BusinessName: req.BusinessName,
		IncidentDate: req.IncidentDate,
		Location:     req.Location,
		Description:  req.Description,
		ReportedBy:   reporterID,
		ReportedAt:   time.Now().UTC(),
	}
	// Reject identifiers that normalize to nothing up front, before they
	// could pollute consolidation as integrity warnings.
	if _, err := normalize.Identifier(r.ScamType, r.Identifier()); err != nil {
		return nil, err
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	if s.alerts != nil {
		if err := s.alerts.PublishReportAlert(ctx, r); err != nil {
			slog.Warn("moderation alert publish failed", "report_id", r.ReportID, "err", err)
		}
	}
	return r, nil
}

func (s *service) Get(ctx context.Context, reportID string) (*domain.ScamReport, error) {
	return s.repo.Get(ctx, reportID)
}

func (s *service) List(ctx context.Context, scamType string, limit int, cursor string) ([]domain.ScamReport, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, scamType, int32(limit), cursor)
}

// Verify marks one report verified. Verification is sticky: verifying an
// already-verified report is a no-op, and nothing ever unsets the flag.
func (s *service) Verify(ctx context.Context, reportID, adminID string) (*domain.ScamReport, error) {
	r, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if r.IsVerified {
		return r, nil
	}
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, reportID, map[string]interface{}{
		fieldIsVerified: true,
		fieldVerifiedBy: adminID,
		fieldVerifiedAt: now.Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	r.IsVerified = true
	r.VerifiedBy = &adminID
	r.VerifiedAt = &now

	if r.ReportedBy != "" {
		n := &domain.Notification{
			NotificationID: id.New(),
			UserID:         r.ReportedBy,
			ReportID:       r.ReportID,
			Title:          "Report verified",
			Message:        "An administrator verified your scam report.",
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.notifRepo.Put(ctx, n); err != nil {
			slog.Warn("could not notify reporter of verification", "report_id", r.ReportID, "user_id", r.ReportedBy, "err", err)
		}
	}
	return r, nil
}

// checkIdentifierFields enforces the invariant that exactly one identifier
// field is set and that it matches the declared scam type.
func checkIdentifierFields(req domain.CreateScamReportRequest) error {
	set := 0
	for _, f := range []*string{req.PhoneNumber, req.Email, req.BusinessName} {
		if f != nil {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of phone_number, email, business_name must be set: %w", domain.ErrBadRequest)
	}
	var match bool
	switch req.ScamType {
	case domain.ScamTypePhone:
		match = req.PhoneNumber != nil
	case domain.ScamTypeEmail:
		match = req.Email != nil
	case domain.ScamTypeBusiness:
		match = req.BusinessName != nil
	}
	if !match {
		return fmt.Errorf("identifier field does not match scam type %q: %w", req.ScamType, domain.ErrBadRequest)
	}
	return nil
}
