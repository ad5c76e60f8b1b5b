package calc

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

func floats(in tools.Input, defaults map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(defaults))
	for key, def := range defaults {
		v, err := in.Float(key, def)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func result(summary string, v any) tools.Result {
	return tools.TextResult(summary).WithStats(map[string]any{"result": v})
}

var LoanTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := floats(in, map[string]float64{"amount": 25000, "rate": 6.5, "years": 5, "extra": 0})
	if err != nil {
		return tools.Result{}, err
	}
	if f["years"] > MaxLoanYears {
		return tools.Result{}, tools.Invalid("Loan term cannot exceed %d years.", MaxLoanYears)
	}
	a := Amortize(Loan{Principal: f["amount"], AnnualRate: f["rate"], Years: f["years"], Extra: f["extra"]})
	summary := fmt.Sprintf("Monthly payment: %.2f · Total paid: %.2f · Total interest: %.2f", a.MonthlyPayment, a.TotalPaid, a.TotalInterest)
	return result(summary, a), nil
})

var PercentageTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := floats(in, map[string]float64{"a": 100, "b": 15})
	if err != nil {
		return tools.Result{}, err
	}
	a, b := f["a"], f["b"]
	p := Percentage(a, b)
	summary := fmt.Sprintf("%s%% of %s = %.2f · %s + %s%% = %.2f", Trim4(b), Trim4(a), p.PercentOf, Trim4(a), Trim4(b), p.Increased)
	return result(summary, p), nil
})

var DateDiffTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	fromRaw, toRaw := in.String("from", ""), in.String("to", "")
	if fromRaw == "" || toRaw == "" {
		return tools.Result{}, tools.Invalid("Enter both dates.")
	}
	from, err := ParseDate(fromRaw)
	if err != nil {
		return tools.Result{}, err
	}
	to, err := ParseDate(toRaw)
	if err != nil {
		return tools.Result{}, err
	}
	d := DateDiff(from, to)
	summary := fmt.Sprintf("Difference: %d day(s) (%d week(s), %d month(s) approx.)", d.Days, d.Weeks, d.Months)
	return result(summary, d), nil
})

var BMITool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	var r BMIResult
	switch strings.ToLower(in.String("mode", "metric")) {
	case "metric":
		f, err := floats(in, map[string]float64{"heightCm": 175, "weightKg": 72})
		if err != nil {
			return tools.Result{}, err
		}
		r = BMIMetric(f["heightCm"], f["weightKg"])
	case "imperial":
		f, err := floats(in, map[string]float64{"feet": 5, "inches": 10, "lbs": 160})
		if err != nil {
			return tools.Result{}, err
		}
		r = BMIImperial(f["feet"], f["inches"], f["lbs"])
	default:
		return tools.Result{}, tools.Invalid("Mode must be metric or imperial.")
	}
	if r.Value == 0 {
		return tools.Result{}, tools.Invalid("Enter a height and weight.")
	}
	return result(fmt.Sprintf("BMI: %.1f · Category: %s", r.Value, r.Category), r), nil
})

var UnitTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	v, err := in.Float("value", 1)
	if err != nil {
		return tools.Result{}, err
	}
	conv, err := Convert(Quantity(strings.ToLower(in.String("type", string(Length)))), v)
	if err != nil {
		return tools.Result{}, err
	}
	lines := make([]string, len(conv))
	for i, c := range conv {
		lines[i] = c.Unit + ": " + Trim4(c.Value)
	}
	return result(strings.Join(lines, "\n"), conv), nil
})

var TipTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := floats(in, map[string]float64{"bill": 100, "tip": 18})
	if err != nil {
		return tools.Result{}, err
	}
	people, err := in.Int("people", 2)
	if err != nil {
		return tools.Result{}, err
	}
	t := SplitTip(f["bill"], f["tip"], people)
	summary := fmt.Sprintf("Tip: %.2f · Total: %.2f · Per person: %.2f", t.TipAmount, t.Total, t.PerPerson)
	return result(summary, t), nil
})
