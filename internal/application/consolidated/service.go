package consolidated

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/beaware-fyi/beaware-api/internal/domain"
)

type Service interface {
	// List returns the consolidated projections for one scam type, or for
	// all types when scamType is empty. The int is the number of reports
	// excluded from grouping because their identifier was missing.
	List(ctx context.Context, scamType string) ([]domain.ConsolidatedScam, int, error)
	// Get resolves one projection by its consolidated id, member reports
	// included.
	Get(ctx context.Context, id string) (*domain.ConsolidatedScam, error)
}

type reportStore interface {
	ListByType(ctx context.Context, scamType string) ([]domain.ScamReport, error)
	ListAll(ctx context.Context) ([]domain.ScamReport, error)
}

type service struct {
	reports reportStore
}

func NewService(reports reportStore) Service {
	return &service{reports: reports}
}

func (s *service) List(ctx context.Context, scamType string) ([]domain.ConsolidatedScam, int, error) {
	var (
		rows []domain.ScamReport
		err  error
	)
	if scamType == "" {
		rows, err = s.reports.ListAll(ctx)
	} else {
		if scamType != domain.ScamTypePhone && scamType != domain.ScamTypeEmail && scamType != domain.ScamTypeBusiness {
			return nil, 0, fmt.Errorf("unknown scam type %q: %w", scamType, domain.ErrBadRequest)
		}
		rows, err = s.reports.ListByType(ctx, scamType)
	}
	if err != nil {
		return nil, 0, err
	}

	scams, skipped := Consolidate(rows)
	s.warnSkipped(skipped)

	// The list view omits member reports; clients fetch them via Get.
	for i := range scams {
		scams[i].Reports = nil
	}
	return scams, len(skipped), nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.ConsolidatedScam, error) {
	scamType, identifier, err := domain.ParseConsolidatedID(id)
	if err != nil {
		return nil, err
	}
	rows, err := s.reports.ListByType(ctx, scamType)
	if err != nil {
		return nil, err
	}
	scams, skipped := Consolidate(rows)
	s.warnSkipped(skipped)
	for i := range scams {
		if scams[i].Identifier == identifier {
			return &scams[i], nil
		}
	}
	return nil, fmt.Errorf("no reports for identifier %q: %w", identifier, domain.ErrNotFound)
}

func (s *service) warnSkipped(skipped []domain.ScamReport) {
	for _, r := range skipped {
		slog.Warn("scam report excluded from consolidation: missing identifier",
			"report_id", r.ReportID, "scam_type", r.ScamType)
	}
}
