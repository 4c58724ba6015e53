package web

import (
	"net/http"
	"strings"

	"directory/internal/application/listutil"
	"directory/internal/application/projections"
)

// handleListMembers handles GET /api/members
func (s *server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := projections.GetMemberPageQuery{
		Filter: listutil.ParseMemberFilter(q),
		Page:   listutil.ParsePageParams(q, s.opts.Limits),
		Now:    s.opts.Now(),
	}
	deps := projections.GetMemberPageDeps{
		MemberStore: s.stores.Members,
		Resolver:    s.resolver,
	}

	result, err := projections.QueryMemberPage(r.Context(), query, deps)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleLookupMember handles GET /api/members/lookup.
// Responds with null when no member owns the email or phone.
func (s *server) handleLookupMember(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := projections.GetMemberByContactQuery{
		Email: strings.TrimSpace(q.Get("email")),
		Phone: strings.TrimSpace(q.Get("phone")),
		Now:   s.opts.Now(),
	}
	if query.Email == "" && query.Phone == "" {
		writeError(w, http.StatusBadRequest, "email or phone is required")
		return
	}

	card, err := projections.QueryMemberByContact(r.Context(), query, projections.GetMemberDetailDeps{
		MemberStore: s.stores.Members,
		Resolver:    s.resolver,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// handleGetMember handles GET /api/members/{id}
func (s *server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryMemberDetail(r.Context(), projections.GetMemberDetailQuery{
		MemberID: r.PathValue("id"),
		Now:      s.opts.Now(),
	}, projections.GetMemberDetailDeps{
		MemberStore: s.stores.Members,
		Resolver:    s.resolver,
	})
	if err != nil {
		readError(w, err, "member")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetFamily handles GET /api/families/{familyNo}
func (s *server) handleGetFamily(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryFamily(r.Context(), projections.GetFamilyQuery{
		FamilyNo: r.PathValue("familyNo"),
		Now:      s.opts.Now(),
	}, projections.GetFamilyDeps{
		MemberStore: s.stores.Members,
		Resolver:    s.resolver,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
