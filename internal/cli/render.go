package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/skip2/go-qrcode"

	"github.com/pkordes/trip-planner/internal/aggregate"
	"github.com/pkordes/trip-planner/internal/dashboard"
	"github.com/pkordes/trip-planner/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...)
}

func check(b bool) string {
	if b {
		return "[x]"
	}
	return "[ ]"
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// renderPlanList renders plans, marking the selected one.
func renderPlanList(plans []domain.Plan, selected domain.Plan) string {
	t := newTable("", "ID", "NAME", "VISIBILITY", "CREATED")
	for _, p := range plans {
		mark := ""
		if p.ID == selected.ID {
			mark = "*"
		}
		t.Row(mark, p.ID.String(), p.DisplayName(), string(p.Visibility), p.CreatedAt.Local().Format("2006-01-02"))
	}
	return t.String()
}

// renderSnapshot renders the whole dashboard of the selected plan.
func renderSnapshot(s dashboard.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s  %s\n",
		titleStyle.Render(s.Plan.DisplayName()),
		mutedStyle.Render(s.Plan.ID.String()),
		visibilityBadge(s.Plan.Visibility))

	b.WriteString(headingStyle.Render(fmt.Sprintf("Itinerary  %s", progressLine(s.ItineraryProgress))) + "\n")
	it := newTable("ID", "WHEN", "CITY", "ACTIVITY", "DONE")
	for _, i := range s.Itinerary {
		it.Row(short(i.ItemID().String()), i.Datetime.Local().Format("Mon Jan 2 15:04"), i.City, i.Activity, check(i.Completed))
	}
	b.WriteString(it.String() + "\n")

	b.WriteString(headingStyle.Render("Budget") + "\n")
	bt := newTable("ID", "CATEGORY", "ITEM", "ESTIMATED", "ACTUAL", "PAID")
	for _, i := range s.Budget {
		bt.Row(short(i.ItemID().String()), string(i.Category), i.Item, money(i.Estimated), money(i.ActualOrZero()), check(i.Paid))
	}
	b.WriteString(bt.String() + "\n")
	b.WriteString(renderBudgetSummary(s.BudgetSummary) + "\n")

	b.WriteString(headingStyle.Render(fmt.Sprintf("Packing  %s", progressLine(s.PackingProgress))) + "\n")
	pt := newTable("ID", "ITEM", "CATEGORY", "PACKED")
	for _, i := range s.Packing {
		pt.Row(short(i.ItemID().String()), i.Item, string(i.Category), check(i.Packed))
	}
	b.WriteString(pt.String())
	return b.String()
}

func renderBudgetSummary(s aggregate.BudgetSummary) string {
	diff := okStyle.Render(money(s.Difference))
	if s.OverBudget {
		diff = dangerStyle.Render("+" + money(s.Difference) + " over budget")
	}
	return fmt.Sprintf("estimated %s  actual %s  difference %s",
		money(s.EstimatedTotal), money(s.ActualTotal), diff)
}

func progressLine(p aggregate.Progress) string {
	return mutedStyle.Render(fmt.Sprintf("%d/%d (%.0f%%)", p.Done, p.Total, p.Percent))
}

func visibilityBadge(v domain.Visibility) string {
	if v == domain.VisibilityPublic {
		return warningStyle.Render("PUBLIC")
	}
	return mutedStyle.Render("PRIVATE")
}

// short returns the first block of a UUID. Commands accept it, or any other
// unique prefix, in place of the full id.
func short(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// renderQR renders url as a terminal QR code.
func renderQR(url string) (string, error) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encoding QR code: %w", err)
	}
	return q.ToSmallString(false), nil
}
