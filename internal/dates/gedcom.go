package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var gedcomMonths = [...]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// ToGEDCOM converts a free-text date to the GEDCOM date grammar.
// Full dates become "2 JAN 1900"; anything else falls back to the year or
// the original text, which GEDCOM permits as an interpreted date phrase.
func ToGEDCOM(s string) string {
	n := Normalize(s)
	switch n.Kind {
	case KindNone:
		return ""
	case KindFull:
		t, err := ParseDate(n.Value)
		if err != nil {
			return n.Value
		}
		return fmt.Sprintf("%d %s %d", t.Day(), gedcomMonths[t.Month()-1], t.Year())
	case KindYear:
		return n.Value
	default:
		return "(" + n.Value + ")"
	}
}

// FromGEDCOM converts a GEDCOM date to ISO where possible, otherwise
// returns the input unchanged. Qualifier prefixes (ABT, BEF, AFT, CAL,
// EST) are stripped before parsing and the remainder kept as free text if
// it will not parse.
func FromGEDCOM(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	fields := strings.Fields(strings.ToUpper(s))
	switch fields[0] {
	case "ABT", "BEF", "AFT", "CAL", "EST":
		fields = fields[1:]
	}

	switch len(fields) {
	case 3:
		day, err := strconv.Atoi(fields[0])
		if err != nil {
			return s
		}
		month := gedcomMonthNumber(fields[1])
		year, yerr := strconv.Atoi(fields[2])
		if month == 0 || yerr != nil {
			return s
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day {
			return s
		}
		return t.Format("2006-01-02")
	case 1:
		if _, err := strconv.Atoi(fields[0]); err == nil && len(fields[0]) == 4 {
			return fields[0]
		}
	}
	return s
}

func gedcomMonthNumber(abbr string) int {
	for i, m := range gedcomMonths {
		if m == abbr {
			return i + 1
		}
	}
	return 0
}
