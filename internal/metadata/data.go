package metadata

import (
	"time"
)

type LoadEvent struct {
	Path       string
	ValueCount int
	Duration   time.Duration
}

type ErrorRecord struct {
	PackageName string
	Action      string
	Cause       ErrorCause
	ErrorString string
	ObservedAt  time.Time
	Attrs       []Attribute
}

/*
ErrorCause is a closed, canonical classification used exclusively for
observability. Packages map their local error causes onto it; it never
drives control flow.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

  - The failure does not map cleanly to any known category.

# CauseFixtureMissing

  - The fixture path does not exist or names a directory.

# CauseReadFailure

  - The fixture exists but could not be read (permissions, I/O).

# CauseContentInvalid

  - The fixture was read but a token is not a floating-point number.

# CauseShapeMismatch

  - The value count does not fit the requested tensor shape.

# CauseIntegrityViolation

  - The fixture digest does not match the pinned checksum.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseFixtureMissing
	CauseReadFailure
	CauseContentInvalid
	CauseShapeMismatch
	CauseIntegrityViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseFixtureMissing:
		return "fixture_missing"
	case CauseReadFailure:
		return "read_failure"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseShapeMismatch:
		return "shape_mismatch"
	case CauseIntegrityViolation:
		return "integrity_violation"
	default:
		return "unknown"
	}
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrPath     AttributeKey = "path"
	AttrFixture  AttributeKey = "fixture"
	AttrToken    AttributeKey = "token"
	AttrIndex    AttributeKey = "index"
	AttrShape    AttributeKey = "shape"
	AttrDigest   AttributeKey = "digest"
	AttrHashAlgo AttributeKey = "hash_algo"
)
