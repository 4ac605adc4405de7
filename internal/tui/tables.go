package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/impactasaurus/impact/internal/services"
)

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func headerStyle(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return Title.Padding(0, 1)
	}
	return lipgloss.NewStyle().Padding(0, 1)
}

// RenderComparison draws the two-meeting comparison as a bordered table.
func RenderComparison(c *services.Comparison) string {
	if c.First == nil || c.Last == nil {
		return Muted.Render("No meetings found")
	}
	name := "Question"
	if c.Aggregation == services.AggregationCategory {
		name = "Category"
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Surface1)).
		StyleFunc(headerStyle).
		Headers(name, c.First.Label, c.Last.Label)
	for _, r := range c.Rows {
		t.Row(r.Name, cell(r.First), cell(r.Last))
	}
	out := t.Render()
	if c.SameRecord {
		out += "\n" + Hot.Render("You are currently comparing the same record.")
	}
	return out
}

// RenderRecords lists records newest first.
func RenderRecords(recs []services.Record) string {
	if len(recs) == 0 {
		return Muted.Render("No meetings found")
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Surface1)).
		StyleFunc(headerStyle).
		Headers("Date", "Questionnaire", "Tags", "Status")
	for _, r := range recs {
		status := Good.Render("complete")
		if r.Incomplete {
			status = Hot.Render("incomplete")
		}
		t.Row(r.Date, r.Questionnaire, strings.Join(r.Tags, ", "), status)
	}
	return t.Render()
}
