package util

import (
	"strconv"
)

// ParseID parses a positive numeric path parameter.
func ParseID(field, s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, NewInputError(field, "invalid id %q", s)
	}
	return uint(id), nil
}
