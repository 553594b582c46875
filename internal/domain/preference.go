package domain

import "strings"

// PreferenceEntry is one row of a faculty GTA preference survey.
type PreferenceEntry struct {
	Term    string `json:"term"`
	Course  string `json:"course"`
	Section string `json:"section"`
	CRN     string `json:"crn"`
	Title   string `json:"title"`

	OfficeHours    bool   `json:"office_hours"`
	InClass        bool   `json:"in_class"`
	Grading        bool   `json:"grading"`
	TimeCommitment string `json:"time_commitment"`
	Notes          string `json:"notes"`

	Instructor        string `json:"instructor"`
	ListedInstructor  string `json:"listed_instructor"`
	UpdatedInstructor string `json:"updated_instructor"`

	SourceFile  string `json:"source_file"`
	SourceSheet string `json:"source_sheet"`
	SourceRow   int    `json:"source_row"`
}

// EffectiveInstructor is the name the row is attributed to: an updated
// instructor wins over the listed one, which wins over the plain column.
func (e PreferenceEntry) EffectiveInstructor() string {
	for _, v := range []string{e.UpdatedInstructor, e.ListedInstructor, e.Instructor} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
