package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	domainMember "directory/internal/domain/member"
)

// GetFamilyQuery carries query parameters.
type GetFamilyQuery struct {
	FamilyNo string
	Now      time.Time
}

// GetFamilyResult carries the query result.
type GetFamilyResult struct {
	FamilyNo string              `json:"family_no"`
	Members  []domainMember.Card `json:"members"`
}

// GetFamilyDeps holds dependencies for QueryFamily.
type GetFamilyDeps struct {
	MemberStore MemberStore
	Resolver    URLResolver
}

// QueryFamily lists the members sharing a family number.
// PRE: FamilyNo is non-empty
// POST: The family head comes first; the rest follow by raw date-of-birth string order
// INVARIANT: an unknown family yields an empty list, not an error
func QueryFamily(ctx context.Context, query GetFamilyQuery, deps GetFamilyDeps) (GetFamilyResult, error) {
	familyNo := strings.TrimSpace(query.FamilyNo)
	rows, err := deps.MemberStore.ListByFamily(ctx, familyNo)
	if err != nil {
		return GetFamilyResult{}, fmt.Errorf("list family %s: %w", familyNo, err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		hi, hj := rows[i].IsFamilyHead(), rows[j].IsFamilyHead()
		if hi != hj {
			return hi
		}
		return domainMember.Str(rows[i].DateOfBirth) < domainMember.Str(rows[j].DateOfBirth)
	})
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	return GetFamilyResult{
		FamilyNo: familyNo,
		Members:  domainMember.ToCards(rows, now, deps.Resolver),
	}, nil
}
