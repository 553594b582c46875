package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"gta-catalog/internal/domain"
	"gta-catalog/internal/enrich"
)

// FeedSheet is the worksheet name of the GTA feed workbook.
const FeedSheet = "GTA Feed"

// Keep header order EXACT; the last five columns are filled in by hand.
var feedHeader = []string{
	"Term",
	"CRN",
	"Course",
	"Sec",
	"Title",
	"Course Type",
	"Meeting Dates",
	"Time",
	"Days",
	"Hrs",
	"Room",
	"Instructor",
	"Seat",
	"Enr",
	"Crosslisted Enr",
	"Total Enr",
	"In Class",
	"Office Hours",
	"Grading",
	"Time commitment",
	"Notes",
}

const editableColumns = 5

func feedRow(term string, s domain.GTASection) []any {
	row := []any{
		term,
		s.CRN,
		s.Course,
		s.Section,
		s.Title,
		s.CourseType,
		s.MeetingDates,
		s.Time,
		s.Days,
		s.Hours,
		s.Room,
		s.Instructor,
		s.Seats,
		s.Enrolled,
		s.CrosslistedEnrollment,
		s.TotalEnrollment,
	}
	for range editableColumns {
		row = append(row, "")
	}
	return row
}

// WriteFeedCSV writes the GTA feed of one term.
func WriteFeedCSV(w io.Writer, term string, rows []domain.GTASection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(feedHeader); err != nil {
		return err
	}
	record := make([]string, len(feedHeader))
	for _, s := range rows {
		for i, v := range feedRow(term, s) {
			switch v := v.(type) {
			case int:
				record[i] = strconv.Itoa(v)
			case string:
				record[i] = v
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFeedWorkbook writes the GTA feed of one term as a single-sheet xlsx
// workbook with the header row frozen.
func WriteFeedWorkbook(w io.Writer, term string, rows []domain.GTASection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), FeedSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(feedHeader))
	for i, h := range feedHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(FeedSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(feedHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(FeedSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, s := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := feedRow(term, s)
		if err := f.SetSheetRow(FeedSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(FeedSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return f.Write(w)
}

// WriteCompatibilityCSV writes the CRN x CRN matrix: a "CRN" header row of
// every CRN, then one row per CRN with TRUE where the pair can share a GTA.
func WriteCompatibilityCSV(w io.Writer, m enrich.Compatibility) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"CRN"}, m.CRNs...)); err != nil {
		return err
	}
	for i, crn := range m.CRNs {
		record := make([]string, 0, len(m.CRNs)+1)
		record = append(record, crn)
		for _, ok := range m.Compatible[i] {
			if ok {
				record = append(record, "TRUE")
			} else {
				record = append(record, "FALSE")
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
