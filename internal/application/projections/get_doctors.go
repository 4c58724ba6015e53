package projections

import (
	"context"
	"fmt"

	"directory/internal/adapters/storage/doctor"
	"directory/internal/application/listutil"
	domainDoctor "directory/internal/domain/doctor"
)

// GetDoctorsQuery carries query parameters.
type GetDoctorsQuery struct {
	Specialty string
	Page      listutil.PageParams
}

// GetDoctorsResult carries the query result.
type GetDoctorsResult struct {
	Doctors     []domainDoctor.Doctor `json:"doctors"`
	Specialties []string              `json:"specialties"`
	Info        listutil.PageInfo     `json:"page_info"`
}

// GetDoctorsDeps holds dependencies for QueryDoctors.
type GetDoctorsDeps struct {
	DoctorStore DoctorStore
	Resolver    URLResolver
}

// QueryDoctors lists doctors ordered by name, optionally restricted to one specialty.
// POST: Specialties lists every distinct specialty regardless of the filter
func QueryDoctors(ctx context.Context, query GetDoctorsQuery, deps GetDoctorsDeps) (GetDoctorsResult, error) {
	filter := doctor.ListFilter{
		Limit:     query.Page.PageSize,
		Offset:    query.Page.Offset(),
		Specialty: query.Specialty,
	}
	list, err := deps.DoctorStore.List(ctx, filter)
	if err != nil {
		return GetDoctorsResult{}, fmt.Errorf("list doctors: %w", err)
	}
	total, err := deps.DoctorStore.Count(ctx, filter)
	if err != nil {
		return GetDoctorsResult{}, fmt.Errorf("count doctors: %w", err)
	}
	specialties, err := deps.DoctorStore.Specialties(ctx)
	if err != nil {
		return GetDoctorsResult{}, fmt.Errorf("list specialties: %w", err)
	}
	out := make([]domainDoctor.Doctor, 0, len(list))
	for _, d := range list {
		d.Image = publicURL(deps.Resolver, d.Image)
		out = append(out, d)
	}
	return GetDoctorsResult{
		Doctors:     out,
		Specialties: specialties,
		Info:        listutil.NewPageInfo(query.Page, len(list), total),
	}, nil
}
