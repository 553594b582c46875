package identity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Policy picks the display name of a cluster from its observed spellings.
type Policy string

const (
	// PolicyLongest prefers the longest spelling; ties go to the first seen.
	PolicyLongest Policy = "longest"
	// PolicyFirstSeen keeps the first spelling encountered.
	PolicyFirstSeen Policy = "first-seen"
	// PolicyOfficial prefers a spelling from the catalog, then falls back to
	// longest.
	PolicyOfficial Policy = "official"
	// PolicyMostFrequent prefers the spelling observed most often, then
	// longest.
	PolicyMostFrequent Policy = "most-frequent"
)

// Policies lists the accepted policy names.
var Policies = []Policy{PolicyLongest, PolicyFirstSeen, PolicyOfficial, PolicyMostFrequent}

// ParsePolicy accepts any of Policies, case-insensitively. Empty means
// PolicyLongest.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PolicyLongest, nil
	}
	for _, p := range Policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("identity: unknown display name policy %q", s)
}

// spelling is one distinct raw name in a cluster.
type spelling struct {
	raw      string
	count    int
	official bool
}

// choose returns the display name for spellings, which are in first-seen
// order and non-empty.
func (p Policy) choose(spellings []spelling) string {
	best := spellings[0]
	for _, s := range spellings[1:] {
		if p.better(s, best) {
			best = s
		}
	}
	return best.raw
}

// better reports whether a should replace the current best b. Spellings are
// visited in first-seen order, so returning false on a tie keeps the earlier
// one.
func (p Policy) better(a, b spelling) bool {
	switch p {
	case PolicyFirstSeen:
		return false
	case PolicyOfficial:
		if a.official != b.official {
			return a.official
		}
	case PolicyMostFrequent:
		if a.count != b.count {
			return a.count > b.count
		}
	}
	return utf8.RuneCountInString(a.raw) > utf8.RuneCountInString(b.raw)
}
