package projections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"directory/internal/adapters/storage"
	"directory/internal/domain/contact"
	domainMember "directory/internal/domain/member"
)

// GetMemberDetailQuery carries query parameters.
type GetMemberDetailQuery struct {
	MemberID string
	Now      time.Time
}

// GetMemberDetailResult carries the query result.
type GetMemberDetailResult struct {
	Member  domainMember.Member `json:"member"`
	Card    domainMember.Card   `json:"card"`
	Contact contact.Links       `json:"contact"`
}

// GetMemberDetailDeps holds dependencies for QueryMemberDetail and QueryMemberByContact.
type GetMemberDetailDeps struct {
	MemberStore MemberStore
	Resolver    URLResolver
}

// QueryMemberDetail retrieves one member with its card and contact intents.
// PRE: MemberID is non-empty
// POST: Returns storage.ErrNotFound when no member has that id
func QueryMemberDetail(ctx context.Context, query GetMemberDetailQuery, deps GetMemberDetailDeps) (GetMemberDetailResult, error) {
	m, err := deps.MemberStore.GetByID(ctx, query.MemberID)
	if err != nil {
		return GetMemberDetailResult{}, err
	}
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	if m.ProfilePicture != nil {
		resolved := publicURL(deps.Resolver, *m.ProfilePicture)
		m.ProfilePicture = &resolved
	}
	return GetMemberDetailResult{
		Member:  m,
		Card:    domainMember.ToCard(m, now, nil),
		Contact: contact.ForMember(m),
	}, nil
}

// GetMemberByContactQuery carries query parameters. Email is tried before Phone.
type GetMemberByContactQuery struct {
	Email string
	Phone string
	Now   time.Time
}

// QueryMemberByContact finds the member owning an email address or phone number.
// PRE: at least one of Email, Phone is non-empty
// POST: Returns nil, nil when neither value matches a member
func QueryMemberByContact(ctx context.Context, query GetMemberByContactQuery, deps GetMemberDetailDeps) (*domainMember.Card, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	lookups := []struct {
		value string
		get   func(context.Context, string) (domainMember.Member, error)
	}{
		{strings.TrimSpace(query.Email), deps.MemberStore.GetByEmail},
		{strings.TrimSpace(query.Phone), deps.MemberStore.GetByPhone},
	}
	for _, l := range lookups {
		if l.value == "" {
			continue
		}
		m, err := l.get(ctx, l.value)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup member: %w", err)
		}
		card := domainMember.ToCard(m, now, deps.Resolver)
		return &card, nil
	}
	return nil, nil
}
