package engine

import (
	"census/internal/models"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Text is what the console shows for r: its message, or a diagnostic
// naming the offending line.
func (r Result) Text() string {
	if r.Failed() {
		return fmt.Sprintf("There was an error when processing the %q line (line %d). Here are the details: %v",
			r.Directive.Text, r.Directive.Line, r.Err)
	}
	return r.Message
}

// WriteReport prints every result of rep, one line or block each.
func WriteReport(w io.Writer, rep *Report) error {
	for _, res := range rep.Results {
		text := res.Text()
		if text == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDisplay(subset []models.CountyRecord) string {
	var b strings.Builder
	for i, r := range subset {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "County: %s, State: %s\n", r.County, r.State)
		fmt.Fprintf(&b, "    Education: %s\n", formatValues(r.Education))
		fmt.Fprintf(&b, "    Ethnicities: %s\n", formatValues(r.Ethnicities))
		fmt.Fprintf(&b, "    Income: %s\n", formatValues(r.Income))
		fmt.Fprintf(&b, "    Age: %s\n", formatValues(r.Age))
		fmt.Fprintf(&b, "    Population: %s\n", formatCounts(r.Population))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatValues(m map[string]float64) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, k+": "+formatFloat(m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatCounts(m map[string]int) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, k+": "+strconv.Itoa(m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
