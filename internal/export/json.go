package export

import (
	"encoding/json"
	"io"
	"regexp"
)

// Output file names.
const (
	AllProcessedFile      = "course_all_processed.json"
	ArchiveFile           = AllProcessedFile + ".br"
	HistoryFile           = "course_instructor_history.json"
	InstructorRecordsFile = "instructor_records.json"
	TitleMapFile          = "course_title_instructors.json"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

func termPart(term string) string {
	s := unsafeName.ReplaceAllString(term, "_")
	if s == "" {
		return "unknown"
	}
	return s
}

// TermProcessedFile is the per-term processed snapshot name.
func TermProcessedFile(term string) string {
	return "term_" + termPart(term) + "_processed.json"
}

// GTAEligibleFile is the per-term trimmed GTA record file name.
func GTAEligibleFile(term string) string {
	return "gta_eligible_term_" + termPart(term) + ".json"
}

// GTAFeedFile is the per-term GTA feed name for ext ".csv" or ".xlsx".
func GTAFeedFile(term, ext string) string {
	return "gta_feed_" + termPart(term) + ext
}

// CompatibilityFile is the per-term CRN compatibility matrix name.
func CompatibilityFile(term string) string {
	return "gta_compatibility_term_" + termPart(term) + ".csv"
}

// CalendarFile is the per-term meeting calendar name.
func CalendarFile(term string) string {
	return "schedule_" + termPart(term) + ".ics"
}

// WriteJSON writes v indented by two spaces with a trailing newline. Map
// keys come out sorted, so equal values give byte-identical files.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
