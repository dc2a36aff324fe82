package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// FromQuery reads the optional "from" (offset) and "size" (limit) query
// parameters and validates them against the shared contract.
func FromQuery(c *gin.Context) (Page, error) {
	offset, err := optionalInt(c, "from")
	if err != nil {
		return Page{}, ErrInvalid
	}
	limit, err := optionalInt(c, "size")
	if err != nil {
		return Page{}, ErrInvalid
	}
	return New(offset, limit)
}

func optionalInt(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
