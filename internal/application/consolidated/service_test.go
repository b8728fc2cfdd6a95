package consolidated

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReportStore struct{ mock.Mock }

func (m *mockReportStore) ListByType(ctx context.Context, scamType string) ([]domain.ScamReport, error) {
	args := m.Called(ctx, scamType)
	if rs, _ := args.Get(0).([]domain.ScamReport); rs != nil {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportStore) ListAll(ctx context.Context) ([]domain.ScamReport, error) {
	args := m.Called(ctx)
	if rs, _ := args.Get(0).([]domain.ScamReport); rs != nil {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestList_UnknownScamType(t *testing.T) {
	svc := NewService(&mockReportStore{})
	_, _, err := svc.List(context.Background(), "crypto")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestList_FiltersByType(t *testing.T) {
	rs := &mockReportStore{}
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rs.On("ListByType", mock.Anything, domain.ScamTypePhone).Return([]domain.ScamReport{
		phoneReport("r1", "2145550100", t1, false),
	}, nil)

	svc := NewService(rs)
	scams, invalid, err := svc.List(context.Background(), domain.ScamTypePhone)

	require.NoError(t, err)
	assert.Zero(t, invalid)
	require.Len(t, scams, 1)
	assert.Nil(t, scams[0].Reports, "list view must not embed member reports")
	rs.AssertExpectations(t)
}

func TestList_CountsInvalidReports(t *testing.T) {
	rs := &mockReportStore{}
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rs.On("ListAll", mock.Anything).Return([]domain.ScamReport{
		phoneReport("r1", "2145550100", t1, false),
		{ReportID: "r2", ScamType: domain.ScamTypePhone, ReportedAt: t1},
	}, nil)

	svc := NewService(rs)
	scams, invalid, err := svc.List(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, 1, invalid)
	assert.Len(t, scams, 1)
}

func TestList_PropagatesStoreError(t *testing.T) {
	rs := &mockReportStore{}
	storeErr := errors.New("dynamo error")
	rs.On("ListAll", mock.Anything).Return(nil, storeErr)

	svc := NewService(rs)
	_, _, err := svc.List(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, storeErr, err)
}

func TestGet_HappyPath(t *testing.T) {
	rs := &mockReportStore{}
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(48 * time.Hour)
	rs.On("ListByType", mock.Anything, domain.ScamTypePhone).Return([]domain.ScamReport{
		phoneReport("r1", "(214) 555-0100", t1, false),
		phoneReport("r2", "+1 214 555 0100", t2, true),
		phoneReport("r3", "9725550199", t1, false),
	}, nil)

	svc := NewService(rs)
	cs, err := svc.Get(context.Background(), domain.ConsolidatedID(domain.ScamTypePhone, "2145550100"))

	require.NoError(t, err)
	assert.Equal(t, "2145550100", cs.Identifier)
	assert.Equal(t, 2, cs.ReportCount)
	assert.True(t, cs.IsVerified)
	assert.Len(t, cs.Reports, 2)
}

func TestGet_NotFound(t *testing.T) {
	rs := &mockReportStore{}
	rs.On("ListByType", mock.Anything, domain.ScamTypePhone).Return([]domain.ScamReport{}, nil)

	svc := NewService(rs)
	_, err := svc.Get(context.Background(), domain.ConsolidatedID(domain.ScamTypePhone, "2145550100"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGet_MalformedID(t *testing.T) {
	svc := NewService(&mockReportStore{})
	_, err := svc.Get(context.Background(), "not base64!!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}
