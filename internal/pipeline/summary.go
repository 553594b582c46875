package pipeline

import "strconv"

// Rows lists the run summary as metric/value pairs for display.
func (s *Summary) Rows() [][]string {
	b := s.Build
	rows := [][]string{
		{"run id", s.RunID},
		{"catalog sources", strconv.Itoa(b.Catalog.Sources)},
		{"catalog rows", strconv.Itoa(b.Catalog.Rows)},
		{"rows without CRN", strconv.Itoa(b.Catalog.NoCRN)},
		{"rows off subject", strconv.Itoa(b.Catalog.OffSubject)},
		{"survey files", strconv.Itoa(b.Survey.Files)},
		{"survey files skipped", strconv.Itoa(b.Survey.SkippedFiles)},
		{"survey rows skipped", strconv.Itoa(b.Survey.SkippedRows)},
		{"preference entries", strconv.Itoa(b.Survey.Entries)},
		{"sections", strconv.Itoa(b.Enrich.Sections)},
		{"terms", strconv.Itoa(b.Enrich.Terms)},
		{"unscheduled", strconv.Itoa(b.Enrich.Unscheduled)},
		{"degraded schedule text", strconv.Itoa(b.Enrich.Degraded)},
		{"crosslist groups", strconv.Itoa(b.Enrich.CrosslistGroups)},
		{"conflict pairs", strconv.Itoa(b.Enrich.ConflictPairs)},
		{"GTA eligible", strconv.Itoa(b.Enrich.GTAEligible)},
		{"instructors", strconv.Itoa(len(b.Directory.Records()))},
		{"files written", strconv.Itoa(len(s.Files))},
		{"calendar events", strconv.Itoa(s.Events)},
	}
	if s.FirstRun {
		rows = append(rows, []string{"changes", "first run"})
	} else {
		rows = append(rows,
			[]string{"sections added", strconv.Itoa(len(s.Diff.Added))},
			[]string{"sections removed", strconv.Itoa(len(s.Diff.Removed))},
			[]string{"sections changed", strconv.Itoa(len(s.Diff.Changed))},
		)
	}
	if s.Uploaded > 0 {
		rows = append(rows, []string{"files uploaded", strconv.Itoa(s.Uploaded)})
	}
	return rows
}
