package consolidated

import (
	"sort"

	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/beaware-fyi/beaware-api/internal/pkg/normalize"
)

type groupKey struct {
	scamType   string
	identifier string
}

// Consolidate groups reports sharing a normalized identifier into
// ConsolidatedScam projections. Reports with a missing or empty identifier
// cannot be grouped; they are returned separately so callers can surface
// them as data-integrity warnings instead of silently dropping them.
//
// Within each projection the member reports are ordered by reported_at
// ascending, ties broken by report id ascending. Projections themselves are
// ordered by last_reported_at descending (most recently reported scam
// first), ties broken by id ascending, so output is deterministic for a
// given input set.
func Consolidate(reports []domain.ScamReport) ([]domain.ConsolidatedScam, []domain.ScamReport) {
	groups := make(map[groupKey][]domain.ScamReport)
	var skipped []domain.ScamReport

	for _, r := range reports {
		norm, err := normalize.Identifier(r.ScamType, r.Identifier())
		if err != nil {
			skipped = append(skipped, r)
			continue
		}
		k := groupKey{scamType: r.ScamType, identifier: norm}
		groups[k] = append(groups[k], r)
	}

	scams := make([]domain.ConsolidatedScam, 0, len(groups))
	for k, members := range groups {
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].ReportedAt.Equal(members[j].ReportedAt) {
				return members[i].ReportID < members[j].ReportID
			}
			return members[i].ReportedAt.Before(members[j].ReportedAt)
		})

		cs := domain.ConsolidatedScam{
			ID:              domain.ConsolidatedID(k.scamType, k.identifier),
			ScamType:        k.scamType,
			Identifier:      k.identifier,
			ReportCount:     len(members),
			FirstReportedAt: members[0].ReportedAt,
			LastReportedAt:  members[len(members)-1].ReportedAt,
			Reports:         members,
		}
		for _, m := range members {
			if m.IsVerified {
				cs.IsVerified = true
				break
			}
		}
		scams = append(scams, cs)
	}

	sort.SliceStable(scams, func(i, j int) bool {
		if scams[i].LastReportedAt.Equal(scams[j].LastReportedAt) {
			return scams[i].ID < scams[j].ID
		}
		return scams[i].LastReportedAt.After(scams[j].LastReportedAt)
	})
	return scams, skipped
}
