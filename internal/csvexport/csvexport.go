// Package csvexport renders item collections as CSV with a fixed column set
// per kind.
package csvexport

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Table is a header plus rows of already formatted cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Itinerary tabulates items as datetime,city,activity,description.
func Itinerary(items []domain.ItineraryItem) Table {
	t := Table{Header: []string{"datetime", "city", "activity", "description"}}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{
			it.Datetime.Format(time.RFC3339), it.City, it.Activity, optString(it.Description),
		})
	}
	return t
}

// Budget tabulates items as category,item,estimated,actual,paid.
// An unrecorded actual is an empty cell.
func Budget(items []domain.BudgetItem) Table {
	t := Table{Header: []string{"category", "item", "estimated", "actual", "paid"}}
	for _, it := range items {
		actual := ""
		if it.Actual != nil {
			actual = formatAmount(*it.Actual)
		}
		t.Rows = append(t.Rows, []string{
			string(it.Category), it.Item, formatAmount(it.Estimated), actual, strconv.FormatBool(it.Paid),
		})
	}
	return t
}

// Packing tabulates items as item,category,packed.
func Packing(items []domain.PackingItem) Table {
	t := Table{Header: []string{"item", "category", "packed"}}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{it.Item, string(it.Category), strconv.FormatBool(it.Packed)})
	}
	return t
}

// Write encodes t to w: the header and each row joined by "\n", with no
// trailing newline. Only cells containing a comma or double quote are
// quoted, with embedded quotes doubled; everything else is written as is.
func Write(w io.Writer, t Table) error {
	var b strings.Builder
	writeLine(&b, t.Header)
	for _, row := range t.Rows {
		b.WriteByte('\n')
		writeLine(&b, row)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("csvexport.Write: %w", err)
	}
	return nil
}

func writeLine(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		if !strings.ContainsAny(cell, `,"`) {
			b.WriteString(cell)
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}

// Filename returns the default download name, e.g. "budget-<planId>.csv".
func Filename(kind domain.Kind, planID uuid.UUID) string {
	return fmt.Sprintf("%s-%s.csv", kind, planID)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
