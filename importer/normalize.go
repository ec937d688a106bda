package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"salereport/internal/timeutil"
)

type dateLayout struct {
	pattern *regexp.Regexp
	// positions of year, month and day in the submatch slice
	year, month, day int
}

// Tried in order; the first syntactic match decides the result.
var dateLayouts = []dateLayout{
	{pattern: regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), year: 1, month: 2, day: 3},
	{pattern: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), year: 3, month: 2, day: 1},
	{pattern: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), year: 3, month: 2, day: 1},
}

var numberStripper = strings.NewReplacer(
	"₹", "",
	"$", "",
	"€", "",
	"£", "",
	"¥", "",
	",", "",
	" ", "",
)

// NormalizeDate converts YYYY-MM-DD, DD/MM/YYYY or DD-MM-YYYY to YYYY-MM-DD.
// Day is only range-checked against 1..31, so 31/02/2024 is accepted.
// Invalid input returns "".
func NormalizeDate(raw string) string {
	return normalizeDate(raw, false)
}

// NormalizeDateStrict is NormalizeDate that also rejects days that do not
// exist in the given month.
func NormalizeDateStrict(raw string) string {
	return normalizeDate(raw, true)
}

func normalizeDate(raw string, strict bool) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		match := layout.pattern.FindStringSubmatch(value)
		if match == nil {
			continue
		}

		year, _ := strconv.Atoi(match[layout.year])
		month, _ := strconv.Atoi(match[layout.month])
		day, _ := strconv.Atoi(match[layout.day])
		if year < 1900 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
			return ""
		}
		if strict && !timeutil.ValidCalendarDay(year, month, day) {
			return ""
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}

	return ""
}

// NormalizeNumber strips currency symbols, thousands separators and spaces and
// reads "(500)" as -500. Anything unparsable becomes 0.
func NormalizeNumber(raw string) float64 {
	cleaned := numberStripper.Replace(strings.TrimSpace(raw))
	if strings.Contains(raw, "(") && strings.Contains(raw, ")") {
		cleaned = "-" + strings.NewReplacer("(", "", ")", "").Replace(cleaned)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
