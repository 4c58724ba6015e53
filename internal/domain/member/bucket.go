package member

// AgeBucket is one of the fixed age ranges used by the directory filter.
type AgeBucket string

// Age buckets, in display order.
const (
	BucketUnder18 AgeBucket = "under-18"
	Bucket18to24  AgeBucket = "18-24"
	Bucket25to34  AgeBucket = "25-34"
	Bucket35to44  AgeBucket = "35-44"
	Bucket45to54  AgeBucket = "45-54"
	Bucket55Plus  AgeBucket = "55+"
)

// AllBuckets lists every bucket in display order.
var AllBuckets = []AgeBucket{BucketUnder18, Bucket18to24, Bucket25to34, Bucket35to44, Bucket45to54, Bucket55Plus}

// BucketFor returns the bucket containing the age.
// POST: ok is false when the age is unknown
func BucketFor(a Age) (AgeBucket, bool) {
	if !a.Known {
		return "", false
	}
	switch {
	case a.Years < 18:
		return BucketUnder18, true
	case a.Years <= 24:
		return Bucket18to24, true
	case a.Years <= 34:
		return Bucket25to34, true
	case a.Years <= 44:
		return Bucket35to44, true
	case a.Years <= 54:
		return Bucket45to54, true
	default:
		return Bucket55Plus, true
	}
}

// BucketSet is a set of selected buckets. The empty set selects everyone.
type BucketSet map[AgeBucket]struct{}

// ParseAgeBuckets builds a set from labels, dropping anything unrecognised.
func ParseAgeBuckets(labels []string) BucketSet {
	set := make(BucketSet, len(labels))
	for _, l := range labels {
		b := AgeBucket(l)
		if b.Valid() {
			set[b] = struct{}{}
		}
	}
	return set
}

// Valid reports whether b is one of the fixed bucket labels.
func (b AgeBucket) Valid() bool {
	for _, known := range AllBuckets {
		if b == known {
			return true
		}
	}
	return false
}

// Matches reports whether an age passes the filter.
// INVARIANT: an empty set matches every age, including unknown ones;
// a non-empty set never matches an unknown age
func (s BucketSet) Matches(a Age) bool {
	if len(s) == 0 {
		return true
	}
	b, ok := BucketFor(a)
	if !ok {
		return false
	}
	_, selected := s[b]
	return selected
}

// Labels returns the selected buckets in display order.
func (s BucketSet) Labels() []string {
	var out []string
	for _, b := range AllBuckets {
		if _, ok := s[b]; ok {
			out = append(out, string(b))
		}
	}
	return out
}
