package validate

import (
	"regexp"
	"strconv"
	"strings"

	"projectpan/internal/domain"
)

var (
	reHexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	reName     = regexp.MustCompile(`^.{1,255}$`)
)

// PIN enforces the 4-8 character window before any hashing happens.
func PIN(s string) bool {
	l := len(s)
	return l >= 4 && l <= 8
}

// Status restricts to the three lifecycle states.
func Status(s string) bool {
	switch s {
	case domain.StatusInStock, domain.StatusInUse, domain.StatusFinished:
		return true
	}
	return false
}

// Rating accepts the 1-5 star range.
func Rating(n int) bool { return n >= 1 && n <= 5 }

// HexColor validates a #RRGGBB value.
func HexColor(s string) bool { return reHexColor.MatchString(s) }

// Name validates a displayable name (category/product).
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reName.MatchString(s)
}

// ID parses a positive numeric resource id from a query value.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
