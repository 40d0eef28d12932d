package coupon

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidUsageLimit = errors.New("invalid usage limit")

type LimitKind int

const (
	LimitOneTime LimitKind = iota + 1
	LimitDaily
	LimitMonthly
	LimitUnlimited
)

func (k LimitKind) String() string {
	switch k {
	case LimitOneTime:
		return "one_time"
	case LimitDaily:
		return "daily"
	case LimitMonthly:
		return "monthly"
	case LimitUnlimited:
		return "unlimited"
	default:
		return "unknown"
	}
}

// UsageLimit is the parsed form of a coupon's usage category. Only Monthly carries a count.
type UsageLimit struct {
	kind LimitKind
	n    int
}

func OneTime() UsageLimit   { return UsageLimit{kind: LimitOneTime, n: 1} }
func Daily() UsageLimit     { return UsageLimit{kind: LimitDaily, n: 1} }
func Unlimited() UsageLimit { return UsageLimit{kind: LimitUnlimited} }

func Monthly(n int) (UsageLimit, error) {
	if n < 1 {
		return UsageLimit{}, fmt.Errorf("%w: monthly cap must be positive, got %d", ErrInvalidUsageLimit, n)
	}
	return UsageLimit{kind: LimitMonthly, n: n}, nil
}

var (
	monthlySuffixRe = regexp.MustCompile(`^monthly_(\d+)$`)
	perMonthRe      = regexp.MustCompile(`^(\d+)_per_month$`)
)

var monthlyWords = map[string]int{
	"monthly_one":   1,
	"monthly_two":   2,
	"monthly_three": 3,
	"monthly_four":  4,
}

// ParseUsageLimit turns the stored category (plus the optional numeric monthly cap column)
// into a UsageLimit. It is the only place category strings are interpreted.
func ParseUsageLimit(category string, monthlyCap *int) (UsageLimit, error) {
	c := strings.ToLower(strings.TrimSpace(category))

	switch c {
	case "one_time", "once":
		return OneTime(), nil
	case "daily":
		return Daily(), nil
	case "unlimited":
		return Unlimited(), nil
	case "monthly":
		if monthlyCap == nil {
			return UsageLimit{}, fmt.Errorf("%w: monthly category requires a cap", ErrInvalidUsageLimit)
		}
		return Monthly(*monthlyCap)
	}

	if n, ok := monthlyWords[c]; ok {
		return Monthly(n)
	}
	if m := monthlySuffixRe.FindStringSubmatch(c); m != nil {
		return parseMonthlyCount(m[1])
	}
	if m := perMonthRe.FindStringSubmatch(c); m != nil {
		return parseMonthlyCount(m[1])
	}

	return UsageLimit{}, fmt.Errorf("%w: %q", ErrInvalidUsageLimit, category)
}

func parseMonthlyCount(s string) (UsageLimit, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return UsageLimit{}, fmt.Errorf("%w: %q", ErrInvalidUsageLimit, s)
	}
	return Monthly(n)
}

func (u UsageLimit) Kind() LimitKind { return u.kind }

// MonthlyCap returns N for Monthly(N), 1 for one-time and daily, 0 for unlimited.
func (u UsageLimit) MonthlyCap() int { return u.n }

func (u UsageLimit) IsZero() bool { return u.kind == 0 }

func (u UsageLimit) String() string {
	if u.kind == LimitMonthly {
		return fmt.Sprintf("monthly_%d", u.n)
	}
	return u.kind.String()
}

// Category and Cap are the storage form, the inverse of ParseUsageLimit.
func (u UsageLimit) Category() string { return u.String() }

func (u UsageLimit) Cap() *int {
	if u.kind != LimitMonthly {
		return nil
	}
	n := u.n
	return &n
}

// ResetInfo is the short human sentence shown next to the limit.
func (u UsageLimit) ResetInfo(anchorDay int) string {
	switch u.kind {
	case LimitOneTime:
		return "One time use only"
	case LimitDaily:
		return "Resets daily at midnight UTC"
	case LimitMonthly:
		return fmt.Sprintf("Resets monthly on day %d of your billing cycle", anchorDay)
	default:
		return "No usage limit"
	}
}
