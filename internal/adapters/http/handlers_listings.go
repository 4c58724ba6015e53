package web

import (
	"net/http"
	"strings"

	"directory/internal/application/projections"
)

// handleListBusinesses handles GET /api/businesses?q=&category=
func (s *server) handleListBusinesses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryBusinesses(r.Context(), projections.GetBusinessesQuery{
		Search:   strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Page:     s.pageParams(r),
	}, s.businessDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetBusiness handles GET /api/businesses/{id}
func (s *server) handleGetBusiness(w http.ResponseWriter, r *http.Request) {
	b, err := projections.QueryBusiness(r.Context(), r.PathValue("id"), s.businessDeps())
	if err != nil {
		readError(w, err, "business")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *server) businessDeps() projections.GetBusinessesDeps {
	return projections.GetBusinessesDeps{BusinessStore: s.stores.Businesses, Resolver: s.resolver}
}

// handleListEvents handles GET /api/events?upcoming=1
func (s *server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	upcoming := r.URL.Query().Get("upcoming")
	result, err := projections.QueryEvents(r.Context(), projections.GetEventsQuery{
		UpcomingOnly: upcoming == "1" || upcoming == "true",
		Now:          s.opts.Now(),
		Page:         s.pageParams(r),
	}, s.eventDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetEvent handles GET /api/events/{id}
func (s *server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := projections.QueryEvent(r.Context(), r.PathValue("id"), s.eventDeps())
	if err != nil {
		readError(w, err, "event")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *server) eventDeps() projections.GetEventsDeps {
	return projections.GetEventsDeps{EventStore: s.stores.Events, Resolver: s.resolver}
}

// handleListDonations handles GET /api/donations
func (s *server) handleListDonations(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryDonations(r.Context(), projections.GetDonationsQuery{
		Page: s.pageParams(r),
	}, projections.GetDonationsDeps{DonationStore: s.stores.Donations, Resolver: s.resolver})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListNews handles GET /api/news
func (s *server) handleListNews(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryNews(r.Context(), projections.GetNewsQuery{
		Page: s.pageParams(r),
	}, s.newsDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetArticle handles GET /api/news/{id}
func (s *server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := projections.QueryArticle(r.Context(), r.PathValue("id"), s.newsDeps())
	if err != nil {
		readError(w, err, "article")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (s *server) newsDeps() projections.GetNewsDeps {
	return projections.GetNewsDeps{NewsStore: s.stores.News, Resolver: s.resolver}
}

// handleListDoctors handles GET /api/doctors?specialty=
func (s *server) handleListDoctors(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryDoctors(r.Context(), projections.GetDoctorsQuery{
		Specialty: strings.TrimSpace(r.URL.Query().Get("specialty")),
		Page:      s.pageParams(r),
	}, projections.GetDoctorsDeps{DoctorStore: s.stores.Doctors, Resolver: s.resolver})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
