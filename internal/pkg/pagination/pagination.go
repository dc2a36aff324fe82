// Package pagination implements the shared offset/limit contract used by all
// list endpoints: zero-based skip count plus maximum row count per page.
package pagination

import "github.com/sergey-oreshkin/shareit/internal/pkg/apperror"

const (
	// DefaultLimit applies when neither parameter is supplied.
	DefaultLimit  = 500
	DefaultOffset = 0
)

// ErrInvalid is returned when supplied pagination parameters are malformed.
var ErrInvalid = apperror.New(apperror.KindValidation, "offset must be >= 0 and limit must be >= 1")

// Page is a validated offset/limit pair.
type Page struct {
	Offset int
	Limit  int
}

// New validates optional offset/limit parameters.
// If both are omitted the defaults apply. If either is supplied, the pair is
// validated as a whole with an omitted half treated as zero, so a lone offset
// without a limit is rejected.
func New(offset, limit *int) (Page, error) {
	if offset == nil && limit == nil {
		return Page{Offset: DefaultOffset, Limit: DefaultLimit}, nil
	}
	p := Page{Offset: intValue(offset), Limit: intValue(limit)}
	if p.Offset < 0 || p.Limit < 1 {
		return Page{}, ErrInvalid
	}
	return p, nil
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
