package resample

import (
	"strings"

	"github.com/rxtech-lab/fedfunds/pkg/errors"
)

// Policy selects how the monthly observations of one quarter collapse into a single value.
type Policy string

const (
	// PolicyMean averages the present values of the quarter.
	PolicyMean Policy = "mean"
	// PolicyLast takes the value of the chronologically last observation of the quarter.
	PolicyLast Policy = "last"
)

// Policies lists every recognized policy.
func Policies() []Policy {
	return []Policy{PolicyMean, PolicyLast}
}

// IsValid reports whether p is a recognized policy.
func (p Policy) IsValid() bool {
	return p == PolicyMean || p == PolicyLast
}

// ParsePolicy converts user input into a Policy. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", errors.Newf(errors.ErrCodeInvalidPolicy, "unknown aggregation policy %q (expected one of: mean, last)", s)
	}

	return p, nil
}
