package domain

import "strings"

// Demand files carry the month as localized (French) text. Planning and
// reconciliation work on the numeric month, so the mapping is kept in both
// directions.
var monthNumbers = map[string]int{
	"janvier":   1,
	"février":   2,
	"mars":      3,
	"avril":     4,
	"mai":       5,
	"juin":      6,
	"juillet":   7,
	"août":      8,
	"septembre": 9,
	"octobre":   10,
	"novembre":  11,
	"décembre":  12,
}

var monthNames = map[int]string{
	1:  "janvier",
	2:  "février",
	3:  "mars",
	4:  "avril",
	5:  "mai",
	6:  "juin",
	7:  "juillet",
	8:  "août",
	9:  "septembre",
	10: "octobre",
	11: "novembre",
	12: "décembre",
}

// MonthNumber returns the 1-12 month number for a localized month name
// (case-insensitive), or 0 when the name is not recognized.
func MonthNumber(name string) int {
	return monthNumbers[strings.ToLower(strings.TrimSpace(name))]
}

// MonthName returns the lowercase localized name for a 1-12 month number,
// or "" when the number is out of range.
func MonthName(month int) string {
	return monthNames[month]
}
