package export

import (
	"fmt"
	"strings"
	"time"
)

const (
	reportTitle      = "REPORTE DE AUDIENCIAS"
	reportRuleWidth  = 80
	noWitnessesLabel = "Sin testigos asignados"
	generatedLayout  = "02/01/2006 15:04:05"
)

// HearingEntry is one hearing as printed in a report.
type HearingEntry struct {
	Date         string
	Time         string
	CourtNumber  int
	Caption      string
	AssignedUser string
	Witnesses    []WitnessEntry
	Details      string
	Info         string
}

// WitnessEntry is one witness line of a report.
type WitnessEntry struct {
	FirstName string
	LastName  string
	Phone     string
	Flagged   bool
	Difficult bool
}

// Markers returns the printed flags of the witness in report order.
func (w WitnessEntry) Markers() []string {
	var markers []string
	if w.Flagged {
		markers = append(markers, "BR")
	}
	if w.Difficult {
		markers = append(markers, "Difícil")
	}
	return markers
}

// TextReport renders entries as the plain-text hearing report.
func TextReport(entries []HearingEntry, generatedAt time.Time) []byte {
	rule := strings.Repeat("=", reportRuleWidth)

	var b strings.Builder
	b.WriteString(reportTitle + "\n")
	fmt.Fprintf(&b, "Generado el: %s\n", generatedAt.Format(generatedLayout))
	fmt.Fprintf(&b, "Total de audiencias: %d\n", len(entries))
	b.WriteString(rule + "\n\n")

	for i, entry := range entries {
		fmt.Fprintf(&b, "AUDIENCIA %d\n", i+1)
		b.WriteString(entry.Date + "\n")
		fmt.Fprintf(&b, "%s J%d %s ** %s\n\n", entry.Time, entry.CourtNumber, entry.Caption, entry.AssignedUser)

		if len(entry.Witnesses) == 0 {
			b.WriteString(noWitnessesLabel + "\n")
		}
		for _, w := range entry.Witnesses {
			b.WriteString(strings.TrimSpace(w.FirstName + " " + w.LastName))
			if w.Phone != "" {
				b.WriteString(" " + w.Phone)
			}
			if markers := w.Markers(); len(markers) > 0 {
				b.WriteString(" (" + strings.Join(markers, ", ") + ")")
			}
			b.WriteString("\n")
		}

		b.WriteString("\n" + entry.Details + "\n\n")
		b.WriteString(entry.Info + "\n")
		b.WriteString("\n" + rule + "\n\n")
	}
	return []byte(b.String())
}

// ReportFilename names a report generated on day with the given extension.
func ReportFilename(day time.Time, extension string) string {
	return fmt.Sprintf("audiencias_%s.%s", day.UTC().Format("2006-01-02"), extension)
}
