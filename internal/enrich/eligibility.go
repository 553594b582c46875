package enrich

import (
	"strings"

	"gta-catalog/internal/domain"
)

// DefaultGTAKeywords are the course-type fragments that make a section GTA
// eligible when no configuration overrides them.
var DefaultGTAKeywords = []string{"lecture", "lab", "online", "distance"}

// Eligibility decides whether a section is staffed through the GTA survey.
type Eligibility struct {
	keywords []string
}

// NewEligibility lower-cases and trims the keywords. An empty list falls back
// to DefaultGTAKeywords.
func NewEligibility(keywords []string) Eligibility {
	var kw []string
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	if len(kw) == 0 {
		kw = DefaultGTAKeywords
	}
	return Eligibility{keywords: kw}
}

// Eligible requires open seats and a matching course type.
func (e Eligibility) Eligible(s domain.CourseSection) bool {
	if s.Seats <= 0 {
		return false
	}
	ct := strings.ToLower(s.CourseType)
	for _, k := range e.keywords {
		if strings.Contains(ct, k) {
			return true
		}
	}
	return false
}
