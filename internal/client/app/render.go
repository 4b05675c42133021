package app

import (
	"fmt"
	"text/tabwriter"
	"time"

	"qoralist/internal/models"
)

// statusText maps a record type to its user-facing label.
func statusText(t models.RecordType) string {
	switch t {
	case models.TypeNasiyaMijoz:
		return "Installment debtor"
	case models.TypePulTolamagan:
		return "Did not pay"
	}
	return string(t)
}

// renderRecord prints one found record, card style.
func (a *App) renderRecord(rec *models.Record) {
	fullName := rec.Name
	if rec.Surname != "" {
		if fullName != "" {
			fullName += " "
		}
		fullName += rec.Surname
	}
	if fullName == "" {
		fullName = "(no name)"
	}

	fmt.Fprintln(a.out, "--- RECORD FOUND ---")
	fmt.Fprintf(a.out, "Name:     %s\n", fullName)
	fmt.Fprintf(a.out, "Passport: %s %s\n", rec.PassportSeriya, rec.PassportCode)
	fmt.Fprintf(a.out, "Status:   %s\n", statusText(rec.Type))
	if rec.User != nil {
		fmt.Fprintf(a.out, "Added by: %s\n", rec.User.Name)
	}
	fmt.Fprintf(a.out, "Added at: %s\n", rec.CreatedAt.Format(time.RFC1123))
}

// renderRecords prints the caller's records as a table.
func (a *App) renderRecords(records []models.Record) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPASSPORT\tSTATUS\tADDED")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s %s\t%s %s\t%s\t%s\n",
			rec.ID,
			rec.Name, rec.Surname,
			rec.PassportSeriya, rec.PassportCode,
			statusText(rec.Type),
			rec.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	tw.Flush()
	fmt.Fprintf(a.out, "%d record(s). Use 'delete <id>' to remove one.\n", len(records))
}
