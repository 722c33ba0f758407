package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bissquit/incident-tracker/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const dateLayout = "2006-01-02 15:04:05"

// DisplayStatus renders MITIGATED as "Mitigated".
func DisplayStatus(s domain.Status) string {
	// A Caser is stateful, so one is built per call.
	return cases.Title(language.English).String(string(s))
}

// RenderTable writes incidents as an aligned table.
func RenderTable(w io.Writer, list []domain.Incident) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No incidents found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSERVICE\tSEVERITY\tSTATUS\tCREATED AT")
	for _, inc := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inc.ID,
			inc.Title,
			inc.Service,
			inc.Severity,
			DisplayStatus(inc.Status),
			formatTime(inc.CreatedAt),
		)
	}
	return tw.Flush()
}

// RenderIncident writes every field of one incident.
func RenderIncident(w io.Writer, inc *domain.Incident) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", inc.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", inc.Title)
	fmt.Fprintf(tw, "Service:\t%s\n", inc.Service)
	fmt.Fprintf(tw, "Severity:\t%s\n", inc.Severity)
	fmt.Fprintf(tw, "Status:\t%s\n", DisplayStatus(inc.Status))
	fmt.Fprintf(tw, "Owner:\t%s\n", orDash(inc.Owner))
	fmt.Fprintf(tw, "Summary:\t%s\n", orDash(inc.Summary))
	fmt.Fprintf(tw, "Created At:\t%s\n", formatTime(inc.CreatedAt))
	fmt.Fprintf(tw, "Updated At:\t%s\n", formatTime(inc.UpdatedAt))
	return tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func orDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}
