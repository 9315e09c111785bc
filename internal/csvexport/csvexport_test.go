package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/csvexport"
	"github.com/pkordes/trip-planner/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func render(t *testing.T, table csvexport.Table) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, csvexport.Write(&buf, table))
	return buf.String()
}

func TestItinerary_QuotesCommaAndQuote(t *testing.T) {
	items := []domain.ItineraryItem{{
		Datetime:    time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC),
		City:        "Tokyo, Japan",
		Activity:    `The "Sky" Tree`,
		Description: ptr("plain"),
	}}

	got := render(t, csvexport.Itinerary(items))

	want := "datetime,city,activity,description\n" +
		`2026-04-01T09:30:00Z,"Tokyo, Japan","The ""Sky"" Tree",plain`
	assert.Equal(t, want, got)
}

func TestItinerary_RoundTrips(t *testing.T) {
	items := []domain.ItineraryItem{{City: "Tokyo, Japan", Activity: `say "hi"`}}

	records, err := csv.NewReader(strings.NewReader(render(t, csvexport.Itinerary(items)))).ReadAll()

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Tokyo, Japan", records[1][1])
	assert.Equal(t, `say "hi"`, records[1][2])
}

func TestWrite_QuotesOnlyCommaAndQuote(t *testing.T) {
	tests := map[string]struct {
		cell string
		want string
	}{
		"leading space":  {" socks", " socks"},
		"embedded CR/LF": {"line one\r\nline two", "line one\r\nline two"},
		"backslash dot":  {`\.`, `\.`},
		"comma":          {"socks, wool", `"socks, wool"`},
		"quote only":     {`6" ruler`, `"6"" ruler"`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := render(t, csvexport.Table{Header: []string{"item"}, Rows: [][]string{{tc.cell}}})

			assert.Equal(t, "item\n"+tc.want, got)
		})
	}
}

func TestBudget_Columns(t *testing.T) {
	items := []domain.BudgetItem{
		{Category: domain.BudgetFood, Item: "Ramen", Estimated: 12.5, Actual: ptr(14.0), Paid: true},
		{Category: domain.BudgetMiscellaneous, Item: "Tips", Estimated: 20},
	}

	got := render(t, csvexport.Budget(items))

	assert.Equal(t, "category,item,estimated,actual,paid\n"+
		"FOOD,Ramen,12.5,14,true\n"+
		"MISCELLANEOUS,Tips,20,,false", got)
}

func TestPacking_Columns(t *testing.T) {
	items := []domain.PackingItem{{Item: "Passport", Category: domain.PackingDocuments, Packed: true}}

	got := render(t, csvexport.Packing(items))

	assert.Equal(t, "item,category,packed\nPassport,DOCUMENTS,true", got)
}

func TestFilename(t *testing.T) {
	id := uuid.MustParse("7f1c1c52-0f4b-4c51-9d7e-2b8f0f5d8a11")

	assert.Equal(t, "packing-7f1c1c52-0f4b-4c51-9d7e-2b8f0f5d8a11.csv", csvexport.Filename(domain.KindPacking, id))
}
