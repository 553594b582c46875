package schedule

import (
	"strings"
	"unicode"
)

// dayOrder is the canonical alphabet: Monday..Sunday with R for Thursday
// and U for Sunday.
const dayOrder = "MTWRFSU"

var dayNames = map[string]byte{
	"MO": 'M', "MON": 'M', "MONDAY": 'M',
	"TU": 'T', "TUE": 'T', "TUES": 'T', "TUESDAY": 'T',
	"WE": 'W', "WED": 'W', "WEDNESDAY": 'W',
	"TH": 'R', "THU": 'R', "THUR": 'R', "THURS": 'R', "THURSDAY": 'R',
	"FR": 'F', "FRI": 'F', "FRIDAY": 'F',
	"SA": 'S', "SAT": 'S', "SATURDAY": 'S',
	"SU": 'U', "SUN": 'U', "SUNDAY": 'U',
}

// ParseDays maps day text ("MWF", "M W F", "T,R", "TTh", "Mon/Wed") onto the
// canonical ordered day-set. Day names are matched only for words of three or
// more letters; shorter tokens are read letter by letter, so "SU" is Saturday
// and Sunday while "Su" is Sunday. Unrecognized letters are returned in
// dropped.
func ParseDays(s string) (days []string, dropped []string) {
	seen := map[byte]bool{}
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, tok := range tokens {
		if placeholders[strings.ToUpper(tok)] {
			continue
		}
		if d, ok := dayNames[strings.ToUpper(tok)]; ok && len(tok) >= 3 {
			seen[d] = true
			continue
		}
		dropped = append(dropped, scanLetters(tok, seen)...)
	}

	days = []string{}
	for i := 0; i < len(dayOrder); i++ {
		if seen[dayOrder[i]] {
			days = append(days, dayOrder[i:i+1])
		}
	}
	return days, dropped
}

// scanLetters reads a run of day letters. An uppercase letter followed by a
// lowercase one ("Th", "Su") is read as a two-letter abbreviation.
func scanLetters(tok string, seen map[byte]bool) []string {
	var dropped []string
	runes := []rune(tok)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if i+1 < len(runes) && unicode.IsUpper(r) && unicode.IsLower(runes[i+1]) {
			pair := strings.ToUpper(string(runes[i : i+2]))
			if d, ok := dayNames[pair]; ok {
				seen[d] = true
				i++
				continue
			}
		}
		up := unicode.ToUpper(r)
		if up < unicode.MaxASCII && strings.IndexByte(dayOrder, byte(up)) >= 0 {
			seen[byte(up)] = true
			continue
		}
		dropped = append(dropped, string(r))
	}
	return dropped
}

func joinDays(days []string) string {
	return strings.Join(days, "")
}
