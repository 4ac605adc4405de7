package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
)

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ColumnLabels are the comparison CSV headers, usually localized.
type ColumnLabels struct {
	Question string
	Category string
	First    string
	Second   string
}

var EnglishColumnLabels = ColumnLabels{Question: "Question", Category: "Category", First: "First meeting", Second: "Second meeting"}

// ExportComparisonCSV renders a comparison table. Header labels carry the
// meeting dates; an absent side is an empty cell.
func ExportComparisonCSV(c *Comparison, labels ColumnLabels) (*ExportResult, error) {
	nameCol := labels.Question
	if c.Aggregation == AggregationCategory {
		nameCol = labels.Category
	}
	firstCol, lastCol := labels.First, labels.Second
	if c.First != nil {
		firstCol += " (" + c.First.Label + ")"
	}
	if c.Last != nil {
		lastCol += " (" + c.Last.Label + ")"
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{nameCol, firstCol, lastCol})
	for _, r := range c.Rows {
		if err := w.Write([]string{r.Name, formatValue(r.First), formatValue(r.Last)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &ExportResult{Filename: "comparison.csv", ContentType: "text/csv; charset=utf-8", Data: buf.Bytes()}, nil
}

// ExportRecordsCSV renders the record list, newest first.
func ExportRecordsCSV(records []Record) (*ExportResult, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "date", "questionnaire", "tags", "conducted_by", "incomplete"})
	for _, r := range records {
		rec := []string{r.ID, r.Date, r.Questionnaire, strings.Join(r.Tags, " | "), r.User, strconv.FormatBool(r.Incomplete)}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &ExportResult{Filename: "records.csv", ContentType: "text/csv; charset=utf-8", Data: buf.Bytes()}, nil
}
