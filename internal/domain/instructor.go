package domain

// InstructorRecord is one canonical instructor identity.
//
// ID is the normalized name key and is stable across runs. Aliases lists
// every raw spelling attributed to the record, display name included, so a
// reviewer can spot false merges.
type InstructorRecord struct {
	ID          string            `json:"id"`
	UUID        string            `json:"uuid"`
	DisplayName string            `json:"display_name"`
	Aliases     []string          `json:"aliases"`
	History     []PreferenceEntry `json:"history"`
}

// InstructorHistory is the leaf of CourseTitleInstructorHistory.
type InstructorHistory struct {
	DisplayName string            `json:"display_name"`
	Aliases     []string          `json:"aliases"`
	History     []PreferenceEntry `json:"history"`
}

// CourseTitleInstructorHistory maps course -> title -> canonical instructor id.
type CourseTitleInstructorHistory map[string]map[string]map[string]InstructorHistory

// CourseTitleInstructors maps course -> title -> sorted raw instructor names
// taught in the current snapshot.
type CourseTitleInstructors map[string]map[string][]string
