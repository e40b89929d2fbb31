package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseCount reads typed decimal text such as a quantity. Only an optional sign
// followed by ASCII digits is accepted; "010" is ten, and hex, octal or
// underscore forms are rejected.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 || digits == "" {
		return 0, errors.Errorf("invalid count %q", s)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, errors.Errorf("invalid count %q", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid count %q", s)
	}
	return n, nil
}
