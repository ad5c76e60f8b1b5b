package texttools

import "strings"

type LineKind string

const (
	Same    LineKind = "same"
	Added   LineKind = "added"
	Removed LineKind = "removed"
)

type DiffLine struct {
	Kind LineKind `json:"type"`
	Text string   `json:"text"`
}

type DiffReport struct {
	Lines   []DiffLine `json:"lines"`
	Added   int        `json:"added"`
	Removed int        `json:"removed"`
}

// Diff compares two texts line by line at equal indexes. It is positional:
// an inserted line shifts every later line into a change.
func Diff(oldText, newText string) DiffReport {
	a := strings.Split(oldText, "\n")
	b := strings.Split(newText, "\n")
	var r DiffReport
	for i := 0; i < max(len(a), len(b)); i++ {
		inA, inB := i < len(a), i < len(b)
		if inA && inB && a[i] == b[i] {
			r.Lines = append(r.Lines, DiffLine{Same, a[i]})
			continue
		}
		if inA {
			r.Lines = append(r.Lines, DiffLine{Removed, a[i]})
			r.Removed++
		}
		if inB {
			r.Lines = append(r.Lines, DiffLine{Added, b[i]})
			r.Added++
		}
	}
	return r
}

// String renders the report with +/- gutters.
func (r DiffReport) String() string {
	var sb strings.Builder
	for _, l := range r.Lines {
		switch l.Kind {
		case Added:
			sb.WriteString("+ ")
		case Removed:
			sb.WriteString("- ")
		default:
			sb.WriteString("  ")
		}
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
