package survey

import (
	"regexp"
	"sort"
	"strings"
)

var seasonYearRe = regexp.MustCompile(`(?i)(winter|spring|summer|fall|autumn)\D{0,20}?(20\d{2})`)

// UnknownTerm labels rows whose term cannot be determined.
const UnknownTerm = "unknown"

// termIndex maps survey term text to configured term codes.
type termIndex struct {
	codes  map[string]bool
	labels map[string]string // "fall 2025" -> code
}

func newTermIndex(terms map[string]string) termIndex {
	idx := termIndex{codes: map[string]bool{}, labels: map[string]string{}}
	codes := make([]string, 0, len(terms))
	for code := range terms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		idx.codes[code] = true
		if sy := seasonYear(terms[code]); sy != "" {
			if _, taken := idx.labels[sy]; !taken {
				idx.labels[sy] = code
			}
		}
	}
	return idx
}

// seasonYear extracts "fall 2025" from text such as "Fall Quarter 2025" or
// "Faculty GTA Survey_fall-2025".
func seasonYear(s string) string {
	m := seasonYearRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	season := strings.ToLower(m[1])
	if season == "autumn" {
		season = "fall"
	}
	return season + " " + m[2]
}

// resolve maps term text to a configured code when possible. Otherwise it
// returns a "Fall 2025" style label, the text itself, or UnknownTerm.
func (idx termIndex) resolve(text string) string {
	text = strings.TrimSpace(text)
	if idx.codes[text] {
		return text
	}
	sy := seasonYear(text)
	if code, ok := idx.labels[sy]; ok {
		return code
	}
	if sy != "" {
		return strings.ToUpper(sy[:1]) + sy[1:]
	}
	if text != "" {
		return text
	}
	return UnknownTerm
}
