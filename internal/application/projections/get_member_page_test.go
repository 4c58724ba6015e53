package projections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"directory/internal/adapters/objectstore"
	"directory/internal/adapters/storage"
	"directory/internal/adapters/storage/member"
	"directory/internal/application/accumulator"
	"directory/internal/application/listutil"
	domainMember "directory/internal/domain/member"
)

type mockMemberStore struct {
	members []domainMember.Member
	err     error
	filters []member.ListFilter
}

// GetByID returns the seeded member with that id.
// PRE: id is non-empty
// POST: Returns storage.ErrNotFound when absent
func (m *mockMemberStore) GetByID(_ context.Context, id string) (domainMember.Member, error) {
	if m.err != nil {
		return domainMember.Member{}, m.err
	}
	for _, v := range m.members {
		if v.ID == id {
			return v, nil
		}
	}
	return domainMember.Member{}, storage.ErrNotFound
}

// GetByEmail returns the first seeded member whose email matches case-insensitively.
// POST: Returns storage.ErrNotFound when absent
func (m *mockMemberStore) GetByEmail(_ context.Context, email string) (domainMember.Member, error) {
	if m.err != nil {
		return domainMember.Member{}, m.err
	}
	for _, v := range m.members {
		if strings.EqualFold(domainMember.Str(v.Email), email) {
			return v, nil
		}
	}
	return domainMember.Member{}, storage.ErrNotFound
}

// GetByPhone returns the first seeded member with a matching mobile number.
// POST: Returns storage.ErrNotFound when absent
func (m *mockMemberStore) GetByPhone(_ context.Context, phone string) (domainMember.Member, error) {
	if m.err != nil {
		return domainMember.Member{}, m.err
	}
	for _, v := range m.members {
		if domainMember.Str(v.Mobile) == phone || domainMember.Str(v.Mobile2) == phone {
			return v, nil
		}
	}
	return domainMember.Member{}, storage.ErrNotFound
}

// ListByFamily returns seeded members sharing familyNo.
func (m *mockMemberStore) ListByFamily(_ context.Context, familyNo string) ([]domainMember.Member, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domainMember.Member
	for _, v := range m.members {
		if domainMember.Str(v.FamilyNo) == familyNo {
			out = append(out, v)
		}
	}
	return out, nil
}

// List returns the seeded window [Offset, Offset+Limit).
// PRE: seeded members are already in surname order
func (m *mockMemberStore) List(_ context.Context, filter member.ListFilter) ([]domainMember.Member, error) {
	m.filters = append(m.filters, filter)
	if m.err != nil {
		return nil, m.err
	}
	if filter.Offset >= len(m.members) {
		return nil, nil
	}
	end := min(filter.Offset+filter.Limit, len(m.members))
	return append([]domainMember.Member(nil), m.members[filter.Offset:end]...), nil
}

// Count returns the number of seeded members.
// POST: Returns count >= 0
func (m *mockMemberStore) Count(_ context.Context, _ member.ListFilter) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.members), nil
}

type prefixResolver string

// PublicURL prefixes relative paths.
func (p prefixResolver) PublicURL(stored string) string {
	if stored == "" || strings.HasPrefix(stored, "http") {
		return stored
	}
	return string(p) + stored
}

func seedMembers(n int) []domainMember.Member {
	out := make([]domainMember.Member, n)
	for i := range out {
		out[i] = domainMember.Member{
			ID:      fmt.Sprintf("m%02d", i),
			Name:    "Name",
			Surname: fmt.Sprintf("Surname%02d", i),
		}
	}
	return out
}

// TestQueryMemberPage_Windows verifies offsets, card mapping and has_more per page.
func TestQueryMemberPage_Windows(t *testing.T) {
	store := &mockMemberStore{members: seedMembers(45)}
	deps := GetMemberPageDeps{MemberStore: store}

	tests := []struct {
		page     int
		wantRows int
		wantMore bool
	}{
		{0, 20, true},
		{1, 20, true},
		{2, 5, false},
		{3, 0, false},
	}
	for _, tt := range tests {
		res, err := QueryMemberPage(context.Background(), GetMemberPageQuery{
			Page: listutil.PageParams{Page: tt.page, PageSize: 20},
		}, deps)
		if err != nil {
			t.Fatalf("page %d: %v", tt.page, err)
		}
		if len(res.Rows) != tt.wantRows || len(res.Cards) != tt.wantRows {
			t.Errorf("page %d: rows=%d cards=%d, want %d", tt.page, len(res.Rows), len(res.Cards), tt.wantRows)
		}
		if res.Info.HasMore != tt.wantMore {
			t.Errorf("page %d: HasMore = %v, want %v", tt.page, res.Info.HasMore, tt.wantMore)
		}
		if res.Info.Total != 45 {
			t.Errorf("page %d: Total = %d, want 45", tt.page, res.Info.Total)
		}
	}
	if got := store.filters[2].Offset; got != 40 {
		t.Errorf("page 2 offset = %d, want 40", got)
	}
}

// TestQueryMemberPage_PassesFilter verifies predicates reach the store.
func TestQueryMemberPage_PassesFilter(t *testing.T) {
	store := &mockMemberStore{}
	_, err := QueryMemberPage(context.Background(), GetMemberPageQuery{
		Filter: listutil.MemberFilter{Search: "shah", Genders: []string{"female"}, Profession: "Doctor"},
		Page:   listutil.PageParams{Page: 0, PageSize: 10},
	}, GetMemberPageDeps{MemberStore: store})
	if err != nil {
		t.Fatalf("QueryMemberPage: %v", err)
	}
	f := store.filters[0]
	if f.Search != "shah" || len(f.Genders) != 1 || f.Genders[0] != "female" || f.Profession != "Doctor" || f.Limit != 10 {
		t.Errorf("filter = %+v", f)
	}
}

// TestQueryMemberPage_CardFields verifies resolved images on rows and cards, and derived age.
func TestQueryMemberPage_CardFields(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &mockMemberStore{members: []domainMember.Member{{
		ID:             "m1",
		Name:           " Asha ",
		Surname:        "Patel",
		DateOfBirth:    domainMember.Opt("1990-01-15"),
		ProfilePicture: domainMember.Opt("profiles/m1.jpg"),
	}}}
	res, err := QueryMemberPage(context.Background(), GetMemberPageQuery{
		Page: listutil.PageParams{PageSize: 20},
		Now:  now,
	}, GetMemberPageDeps{MemberStore: store, Resolver: prefixResolver("https://cdn.example/")})
	if err != nil {
		t.Fatalf("QueryMemberPage: %v", err)
	}
	c := res.Cards[0]
	if c.DisplayName != "Asha Patel" {
		t.Errorf("DisplayName = %q", c.DisplayName)
	}
	if c.DisplayImage != "https://cdn.example/profiles/m1.jpg" {
		t.Errorf("DisplayImage = %q", c.DisplayImage)
	}
	if got := domainMember.Str(res.Rows[0].ProfilePicture); got != "https://cdn.example/profiles/m1.jpg" {
		t.Errorf("Rows[0].ProfilePicture = %q, want resolved URL", got)
	}
	if c.Age.String() != "34" {
		t.Errorf("Age = %q, want 34", c.Age.String())
	}
	if c.Location != domainMember.UnknownLocation {
		t.Errorf("Location = %q", c.Location)
	}
}

// TestQueryMemberPage_StoreError verifies store failures are wrapped and returned.
func TestQueryMemberPage_StoreError(t *testing.T) {
	boom := errors.New("db down")
	_, err := QueryMemberPage(context.Background(), GetMemberPageQuery{
		Page: listutil.PageParams{PageSize: 20},
	}, GetMemberPageDeps{MemberStore: &mockMemberStore{err: boom}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

// TestMemberPageFetcher_DrivesAccumulator verifies the store-backed fetcher through load-more.
func TestMemberPageFetcher_DrivesAccumulator(t *testing.T) {
	ctx := context.Background()
	store := &mockMemberStore{members: seedMembers(45)}
	acc := accumulator.New(MemberPageFetcher{Store: store}, accumulator.Options{PageSize: 20})

	if err := acc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, want := range []int{40, 45} {
		if err := acc.LoadMore(ctx); err != nil {
			t.Fatalf("LoadMore: %v", err)
		}
		if got := len(acc.All()); got != want {
			t.Errorf("len = %d, want %d", got, want)
		}
	}
	if acc.HasMore() {
		t.Error("HasMore should be false once all rows are loaded")
	}
	if raw, ok := acc.Raw("m44"); !ok || raw.Surname != "Surname44" {
		t.Errorf("Raw(m44) = %+v, %v", raw, ok)
	}
}

// TestQueryMemberPage_RelativeBaseURL verifies a same-origin base URL is applied once to rows and cards.
func TestQueryMemberPage_RelativeBaseURL(t *testing.T) {
	resolver := objectstore.NewResolver(objectstore.NewLocalStore(t.TempDir(), "/files"))
	store := &mockMemberStore{members: []domainMember.Member{{
		ID:             "m1",
		Name:           "Asha",
		Surname:        "Patel",
		ProfilePicture: domainMember.Opt("profiles/m1.jpg"),
	}}}
	res, err := QueryMemberPage(context.Background(), GetMemberPageQuery{
		Page: listutil.PageParams{PageSize: 20},
	}, GetMemberPageDeps{MemberStore: store, Resolver: resolver})
	if err != nil {
		t.Fatalf("QueryMemberPage: %v", err)
	}
	row := domainMember.Str(res.Rows[0].ProfilePicture)
	if row != "/files/profiles/m1.jpg" {
		t.Errorf("Rows[0].ProfilePicture = %q, want /files/profiles/m1.jpg", row)
	}
	if res.Cards[0].DisplayImage != row {
		t.Errorf("Cards[0].DisplayImage = %q, want %q", res.Cards[0].DisplayImage, row)
	}
}

// TestMemberPageFetcher_ResolvesOnce verifies accumulator cards keep the fetcher's resolved URL.
func TestMemberPageFetcher_ResolvesOnce(t *testing.T) {
	resolver := objectstore.NewResolver(objectstore.NewLocalStore(t.TempDir(), "/files"))
	store := &mockMemberStore{members: []domainMember.Member{{
		ID:             "m1",
		Name:           "Asha",
		Surname:        "Patel",
		ProfilePicture: domainMember.Opt("profiles/m1.jpg"),
	}}}
	acc := accumulator.New(MemberPageFetcher{Store: store, Resolver: resolver}, accumulator.Options{PageSize: 20})
	if err := acc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := acc.All()[0].DisplayImage; got != "/files/profiles/m1.jpg" {
		t.Errorf("DisplayImage = %q, want /files/profiles/m1.jpg", got)
	}
}
