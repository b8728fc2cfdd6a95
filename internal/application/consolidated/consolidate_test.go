package consolidated

import (
	"testing"
	"time"

	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func phoneReport(id, number string, reportedAt time.Time, verified bool) domain.ScamReport {
	return domain.ScamReport{
		ReportID:    id,
		ScamType:    domain.ScamTypePhone,
		PhoneNumber: ptr(number),
		ReportedAt:  reportedAt,
		IsVerified:  verified,
	}
}

func TestConsolidate_GroupsDifferentlyFormattedPhoneNumbers(t *testing.T) {
	t1 := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 2, 3, 16, 30, 0, 0, time.UTC)

	scams, skipped := Consolidate([]domain.ScamReport{
		phoneReport("r1", "(214) 555-0100", t1, false),
		phoneReport("r2", "214-555-0100", t2, true),
	})

	require.Empty(t, skipped)
	require.Len(t, scams, 1)
	cs := scams[0]
	assert.Equal(t, "2145550100", cs.Identifier)
	assert.Equal(t, 2, cs.ReportCount)
	assert.True(t, cs.IsVerified)
	assert.Equal(t, t1, cs.FirstReportedAt)
	assert.Equal(t, t2, cs.LastReportedAt)
	require.Len(t, cs.Reports, 2)
	assert.Equal(t, "r1", cs.Reports[0].ReportID)
	assert.Equal(t, "r2", cs.Reports[1].ReportID)
}

func TestConsolidate_SingleReportStillEmitsProjection(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	scams, skipped := Consolidate([]domain.ScamReport{
		phoneReport("r1", "2145550100", t1, false),
	})
	require.Empty(t, skipped)
	require.Len(t, scams, 1)
	assert.Equal(t, 1, scams[0].ReportCount)
	assert.Equal(t, t1, scams[0].FirstReportedAt)
	assert.Equal(t, t1, scams[0].LastReportedAt)
	assert.False(t, scams[0].IsVerified)
}

func TestConsolidate_ReportCountPartitionsInput(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	reports := []domain.ScamReport{
		phoneReport("r1", "2145550100", base, false),
		phoneReport("r2", "(214) 555-0100", base.Add(time.Hour), false),
		phoneReport("r3", "9725550199", base.Add(2*time.Hour), false),
		{ReportID: "r4", ScamType: domain.ScamTypeEmail, Email: ptr("Scam@Mail.com"), ReportedAt: base},
		{ReportID: "r5", ScamType: domain.ScamTypeEmail, Email: ptr(" scam@mail.com "), ReportedAt: base.Add(time.Minute)},
		{ReportID: "r6", ScamType: domain.ScamTypeBusiness, BusinessName: ptr("ACME  Movers"), ReportedAt: base},
	}

	scams, skipped := Consolidate(reports)
	require.Empty(t, skipped)

	total := 0
	for _, cs := range scams {
		assert.Equal(t, len(cs.Reports), cs.ReportCount)
		total += cs.ReportCount
	}
	assert.Equal(t, len(reports), total, "sum of report counts must equal input size")
	assert.Len(t, scams, 4)
}

func TestConsolidate_SameIdentifierDifferentTypesStaySeparate(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	scams, _ := Consolidate([]domain.ScamReport{
		{ReportID: "r1", ScamType: domain.ScamTypeEmail, Email: ptr("acme")}, // malformed but normalizes fine
		{ReportID: "r2", ScamType: domain.ScamTypeBusiness, BusinessName: ptr("acme"), ReportedAt: base},
	})
	assert.Len(t, scams, 2)
}

func TestConsolidate_MissingIdentifierIsSkippedNotCounted(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	reports := []domain.ScamReport{
		phoneReport("r1", "2145550100", base, false),
		{ReportID: "r2", ScamType: domain.ScamTypePhone, ReportedAt: base},                        // nil identifier
		{ReportID: "r3", ScamType: domain.ScamTypePhone, PhoneNumber: ptr("ext."), ReportedAt: base}, // normalizes to empty
	}

	scams, skipped := Consolidate(reports)
	require.Len(t, scams, 1)
	assert.Equal(t, 1, scams[0].ReportCount)
	require.Len(t, skipped, 2)
	assert.Equal(t, "r2", skipped[0].ReportID)
	assert.Equal(t, "r3", skipped[1].ReportID)
}

func TestConsolidate_VerificationIsStickyOR(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	unverified := []domain.ScamReport{
		phoneReport("r1", "2145550100", base, false),
		phoneReport("r2", "2145550100", base.Add(time.Hour), false),
		phoneReport("r3", "2145550100", base.Add(2*time.Hour), false),
	}

	scams, _ := Consolidate(unverified)
	require.Len(t, scams, 1)
	assert.False(t, scams[0].IsVerified)

	// Verifying any single member flips the aggregate.
	for i := range unverified {
		toggled := make([]domain.ScamReport, len(unverified))
		copy(toggled, unverified)
		toggled[i].IsVerified = true
		scams, _ := Consolidate(toggled)
		require.Len(t, scams, 1)
		assert.True(t, scams[0].IsVerified, "verifying member %d must verify the aggregate", i)
	}
}

func TestConsolidate_TiesBrokenByReportID(t *testing.T) {
	same := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	scams, _ := Consolidate([]domain.ScamReport{
		phoneReport("r9", "2145550100", same, false),
		phoneReport("r1", "2145550100", same, false),
		phoneReport("r5", "2145550100", same, false),
	})
	require.Len(t, scams, 1)
	ids := []string{scams[0].Reports[0].ReportID, scams[0].Reports[1].ReportID, scams[0].Reports[2].ReportID}
	assert.Equal(t, []string{"r1", "r5", "r9"}, ids)
}

func TestConsolidate_ProjectionsOrderedByLastReportDescending(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	scams, _ := Consolidate([]domain.ScamReport{
		phoneReport("r1", "2145550100", base, false),
		phoneReport("r2", "9725550199", base.Add(time.Hour), false),
	})
	require.Len(t, scams, 2)
	assert.Equal(t, "9725550199", scams[0].Identifier)
	assert.Equal(t, "2145550100", scams[1].Identifier)
}

func TestConsolidate_EmptyInput(t *testing.T) {
	scams, skipped := Consolidate(nil)
	assert.Empty(t, scams)
	assert.Empty(t, skipped)
}
