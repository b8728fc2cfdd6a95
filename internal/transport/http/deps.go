package http

import (
	"context"

	"github.com/beaware-fyi/beaware-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByBeawareUsername(ctx context.Context, name string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	SetBeawareUsername(ctx context.Context, userID, name string) error
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
}

// ReportRepository is the minimal interface the router requires from a report store.
type ReportRepository interface {
	Put(ctx context.Context, r *domain.ScamReport) error
	Get(ctx context.Context, reportID string) (*domain.ScamReport, error)
	ListByType(ctx context.Context, scamType string) ([]domain.ScamReport, error)
	ListAll(ctx context.Context) ([]domain.ScamReport, error)
	ScanPage(ctx context.Context, scamType string, limit int32, cursor string) ([]domain.ScamReport, string, error)
	Update(ctx context.Context, reportID string, updates map[string]interface{}) error
}

// NotificationRepository is the minimal interface the router requires from a notification store.
type NotificationRepository interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error)
}

// AlertPublisher pushes moderation alerts for newly filed reports.
type AlertPublisher interface {
	PublishReportAlert(ctx context.Context, r *domain.ScamReport) error
}
