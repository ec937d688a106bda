package importer

import (
	"salereport/internal/timeutil"

	"github.com/shopspring/decimal"
)

const yearCodeMissing = "year_code_missing"

// RECode builds the period code for an ISO invoice date: the configured year
// letter followed by the month letter. The day is not checked, so loosely
// normalized dates such as 2024-02-31 still get a code.
func RECode(isoDate string, yearCodes map[int]string) string {
	year, month, ok := timeutil.SplitDay(isoDate)
	if !ok {
		return ""
	}

	yearCode, ok := yearCodes[year]
	if !ok || yearCode == "" {
		return yearCodeMissing
	}
	return yearCode + timeutil.MonthCode(month)
}

type taxFigures struct {
	IGSTAmount float64
	IGSTRate   float64
	CGSTRate   float64
	SGSTRate   float64
	CGSTAmount float64
	SGSTAmount float64
	Assessable float64
}

// igstFlags reports whether a line is IGST-taxed and its effective GST
// percentage. Without any rate columns the percentage is derived from the
// tax amounts over the assessable value, rounded to two places.
func igstFlags(t taxFigures) (string, float64) {
	if t.IGSTAmount > 0 || t.IGSTRate > 0 {
		return "yes", t.IGSTRate
	}

	if t.CGSTRate > 0 || t.SGSTRate > 0 {
		return "no", t.CGSTRate + t.SGSTRate
	}

	if t.Assessable > 0 {
		totalTax := decimal.NewFromFloat(t.CGSTAmount).Add(decimal.NewFromFloat(t.SGSTAmount))
		if totalTax.IsPositive() {
			percentage := totalTax.Div(decimal.NewFromFloat(t.Assessable)).Mul(decimal.NewFromInt(100)).Round(2)
			return "no", percentage.InexactFloat64()
		}
	}

	return "no", 0
}
