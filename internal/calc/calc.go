// Package calc contains closed-form calculators. Every function is pure.
package calc

import (
	"math"
	"strings"
	"time"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

type Loan struct {
	Principal  float64 `json:"principal"`
	AnnualRate float64 `json:"annualRate"`
	Years      float64 `json:"years"`
	Extra      float64 `json:"extra"`
}

type Amortization struct {
	Months         float64   `json:"months"`
	BasePayment    float64   `json:"basePayment"`
	MonthlyPayment float64   `json:"monthlyPayment"`
	TotalPaid      float64   `json:"totalPaid"`
	TotalInterest  float64   `json:"totalInterest"`
	Balances       []float64 `json:"balances"`
}

// MaxLoanYears bounds the term so the balance schedule stays small.
const MaxLoanYears = 100

// Amortize computes the level monthly payment P*r/(1-(1+r)^-n), or P/n at a
// zero rate, plus any extra payment, and the month-end balances until the
// loan is paid off or the term ends.
func Amortize(l Loan) Amortization {
	r := l.AnnualRate / 100 / 12
	n := math.Min(math.Max(1, l.Years*12), MaxLoanYears*12)
	base := l.Principal / n
	if r != 0 {
		base = l.Principal * r / (1 - math.Pow(1+r, -n))
	}
	payment := base + l.Extra
	total := payment * n

	balance := l.Principal
	var balances []float64
	for i := 0; float64(i) < n; i++ {
		interest := balance * r
		principal := math.Max(0, payment-interest)
		balance = math.Max(0, balance-principal)
		balances = append(balances, balance)
		if balance <= 0 {
			break
		}
	}
	return Amortization{
		Months:         n,
		BasePayment:    base,
		MonthlyPayment: payment,
		TotalPaid:      total,
		TotalInterest:  total - l.Principal,
		Balances:       balances,
	}
}

type Percentages struct {
	PercentOf   float64 `json:"percentOf"`
	Increased   float64 `json:"increased"`
	Decreased   float64 `json:"decreased"`
	ShareOfBase float64 `json:"shareOfBase"`
}

// Percentage relates a base value a and a percentage b. ShareOfBase is b as
// a percent of a, zero when a is zero.
func Percentage(a, b float64) Percentages {
	p := Percentages{
		PercentOf: a * (b / 100),
		Increased: a * (1 + b/100),
		Decreased: a * (1 - b/100),
	}
	if a != 0 {
		p.ShareOfBase = b / a * 100
	}
	return p
}

type DateSpan struct {
	Days   int `json:"days"`
	Weeks  int `json:"weeks"`
	Months int `json:"months"`
}

// DateDiff is the absolute whole-day distance; months are 30-day blocks.
func DateDiff(from, to time.Time) DateSpan {
	d := to.Sub(from)
	if d < 0 {
		d = -d
	}
	days := int(d / (24 * time.Hour))
	return DateSpan{Days: days, Weeks: days / 7, Months: days / 30}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05"}

// ParseDate accepts calendar dates (read as UTC midnight) and timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, tools.Invalid("Invalid date %q.", s)
}

type BMIResult struct {
	Value    float64 `json:"value"`
	Category string  `json:"category"`
}

func bmiCategory(v float64) string {
	switch {
	case v < 18.5:
		return "Underweight"
	case v < 25:
		return "Normal"
	case v < 30:
		return "Overweight"
	default:
		return "Obesity"
	}
}

// BMIMetric takes height in centimeters and weight in kilograms. A zero
// height or weight yields a zero value with no category.
func BMIMetric(heightCm, weightKg float64) BMIResult {
	m := heightCm / 100
	if m == 0 || weightKg == 0 {
		return BMIResult{}
	}
	v := weightKg / (m * m)
	return BMIResult{Value: v, Category: bmiCategory(v)}
}

// BMIImperial takes height in feet and inches and weight in pounds.
func BMIImperial(feet, inches, lbs float64) BMIResult {
	total := feet*12 + inches
	if total == 0 || lbs == 0 {
		return BMIResult{}
	}
	v := 703 * lbs / (total * total)
	return BMIResult{Value: v, Category: bmiCategory(v)}
}

type Tip struct {
	TipAmount float64 `json:"tipAmount"`
	Total     float64 `json:"total"`
	PerPerson float64 `json:"perPerson"`
}

// SplitTip divides bill plus tip among people, at least one.
func SplitTip(bill, tipPercent float64, people int) Tip {
	tip := bill * tipPercent / 100
	total := bill + tip
	return Tip{TipAmount: tip, Total: total, PerPerson: total / float64(max(1, people))}
}
