package projections

import (
	"context"

	"directory/internal/adapters/storage/business"
	"directory/internal/adapters/storage/doctor"
	"directory/internal/adapters/storage/event"
	"directory/internal/adapters/storage/member"
	domainBusiness "directory/internal/domain/business"
	domainDoctor "directory/internal/domain/doctor"
	domainDonation "directory/internal/domain/donation"
	domainEvent "directory/internal/domain/event"
	domainMember "directory/internal/domain/member"
	domainNews "directory/internal/domain/news"
)

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	GetByEmail(ctx context.Context, email string) (domainMember.Member, error)
	GetByPhone(ctx context.Context, phone string) (domainMember.Member, error)
	ListByFamily(ctx context.Context, familyNo string) ([]domainMember.Member, error)
	List(ctx context.Context, filter member.ListFilter) ([]domainMember.Member, error)
	Count(ctx context.Context, filter member.ListFilter) (int, error)
}

// BusinessStore interface for business directory queries.
type BusinessStore interface {
	GetByID(ctx context.Context, id string) (domainBusiness.Business, error)
	List(ctx context.Context, filter business.ListFilter) ([]domainBusiness.Business, error)
	Count(ctx context.Context, filter business.ListFilter) (int, error)
}

// EventStore interface for event queries.
type EventStore interface {
	GetByID(ctx context.Context, id string) (domainEvent.Event, error)
	List(ctx context.Context, filter event.ListFilter) ([]domainEvent.Event, error)
	Count(ctx context.Context, filter event.ListFilter) (int, error)
}

// DonationStore interface for donation queries.
type DonationStore interface {
	List(ctx context.Context, limit, offset int) ([]domainDonation.Donation, error)
	Count(ctx context.Context) (int, error)
}

// NewsStore interface for news queries.
type NewsStore interface {
	GetByID(ctx context.Context, id string) (domainNews.Article, error)
	List(ctx context.Context, limit, offset int) ([]domainNews.Article, error)
	Count(ctx context.Context) (int, error)
}

// DoctorStore interface for doctor directory queries.
type DoctorStore interface {
	List(ctx context.Context, filter doctor.ListFilter) ([]domainDoctor.Doctor, error)
	Count(ctx context.Context, filter doctor.ListFilter) (int, error)
	Specialties(ctx context.Context) ([]string, error)
}

// URLResolver turns stored attachment paths into public URLs.
// *objectstore.Resolver satisfies it.
type URLResolver interface {
	PublicURL(stored string) string
}

func publicURL(r URLResolver, stored string) string {
	if r == nil {
		return stored
	}
	return r.PublicURL(stored)
}

func publicURLs(r URLResolver, stored []string) []string {
	out := make([]string, len(stored))
	for i, s := range stored {
		out[i] = publicURL(r, s)
	}
	return out
}
