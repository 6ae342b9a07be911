package service

import (
	"fmt"
	"strings"

	"advocateasy-backend/models"
)

const exportDivider = "------------------------------------\n\n"

// BuildCaseExport renders a case as a plain-text document: header with
// totals, the full conversation, and the accumulated references. Pure
// formatting; the result is not part of persisted state.
func BuildCaseExport(c *models.Case) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Case Title: %s\n", c.Title))
	builder.WriteString(fmt.Sprintf("Total Tokens Saved: %d\n", c.TotalCreditsSaved))
	builder.WriteString(fmt.Sprintf("Created: %s\n", c.CreatedAt.Format("2 Jan 2006")))
	builder.WriteString(exportDivider)

	for _, turn := range c.Turns {
		switch turn.Speaker {
		case models.SpeakerUser:
			builder.WriteString("My Query:\n")
		case models.SpeakerAssistant:
			builder.WriteString("Advocat's Response:\n")
		}
		builder.WriteString(turn.Text)
		builder.WriteString("\n\n")
		builder.WriteString(exportDivider)
	}

	if len(c.References) > 0 {
		builder.WriteString("References:\n")
		for _, ref := range c.References {
			if ref.Kind == models.CitationLink && ref.Target != "" && ref.Target != ref.Title {
				builder.WriteString(fmt.Sprintf("- %s (%s)\n", ref.Title, ref.Target))
			} else {
				builder.WriteString(fmt.Sprintf("- %s\n", ref.Title))
			}
		}
	}

	return builder.String()
}

// BuildIntakeSummary renders the accumulated intake record as plain text
// for inclusion at the top of an analysis export.
func BuildIntakeSummary(form *models.CaseIntakeForm) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Case: %s\n", form.CaseTitle))
	builder.WriteString(fmt.Sprintf("Parties: %s vs %s\n", form.PlaintiffName, form.DefendantName))
	builder.WriteString(fmt.Sprintf("Type: %s\n", form.CaseType))
	builder.WriteString(fmt.Sprintf("Jurisdiction: %s, %s\n", form.City, form.State))
	if form.CauseDate != "" {
		builder.WriteString(fmt.Sprintf("Date of Cause: %s\n", form.CauseDate))
	}
	builder.WriteString(fmt.Sprintf("What Happened: %s\n", form.Description))
	if form.ReliefSought != "" {
		builder.WriteString(fmt.Sprintf("Relief Sought: %s\n", form.ReliefSought))
	}

	if len(form.Witnesses) > 0 {
		builder.WriteString("Witnesses:\n")
		for _, w := range form.Witnesses {
			builder.WriteString(fmt.Sprintf("- %s (%s): %s\n", w.Name, w.Relation, w.Knowledge))
		}
	}
	if len(form.Evidence) > 0 {
		builder.WriteString("Evidence:\n")
		for _, e := range form.Evidence {
			line := fmt.Sprintf("- [%s] %s", e.Type, e.Description)
			if e.AttachedFileName != "" {
				line += fmt.Sprintf(" (file: %s)", e.AttachedFileName)
			}
			builder.WriteString(line + "\n")
		}
	}

	return builder.String()
}
