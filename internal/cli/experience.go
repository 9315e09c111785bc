package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/aggregate"
	"github.com/pkordes/trip-planner/internal/dashboard"
	"github.com/pkordes/trip-planner/internal/domain"
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	todayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	helpStyle   = mutedStyle.MarginTop(1)
)

type tickMsg time.Time

type toggledMsg struct{ err error }

// experienceModel is the bubbletea model of the shared-plan view.
type experienceModel struct {
	ctx       context.Context
	exp       *dashboard.Experience
	countdown *dashboard.Countdown
	now       func() time.Time

	cursor    int
	remaining aggregate.Remaining
	bar       progress.Model
	err       error
}

func newExperienceModel(ctx context.Context, exp *dashboard.Experience) experienceModel {
	m := experienceModel{
		ctx:       ctx,
		exp:       exp,
		countdown: exp.Countdown(),
		now:       time.Now,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
	if m.countdown != nil {
		m.remaining = m.countdown.Remaining()
	}
	return m
}

func runExperience(ctx context.Context, exp *dashboard.Experience) error {
	_, err := tea.NewProgram(newExperienceModel(ctx, exp), tea.WithContext(ctx)).Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m experienceModel) Init() tea.Cmd {
	if m.countdown == nil || m.remaining.Started {
		return nil
	}
	return tick()
}

// ordered returns the entries in display order, day by day.
func (m experienceModel) ordered() []domain.ItineraryItem {
	var out []domain.ItineraryItem
	for _, g := range m.exp.Groups() {
		out = append(out, g.Items...)
	}
	return out
}

func (m experienceModel) toggle(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		return toggledMsg{err: m.exp.ToggleComplete(m.ctx, id)}
	}
}

func (m experienceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		items := m.ordered()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(items)-1 {
				m.cursor++
			}
		case " ", "enter", "x":
			if m.cursor < len(items) {
				m.err = nil
				return m, m.toggle(items[m.cursor].ID)
			}
		}
	case toggledMsg:
		m.err = msg.err
	case tickMsg:
		m.remaining = m.countdown.Remaining()
		if !m.remaining.Started {
			return m, tick()
		}
	}
	return m, nil
}

func (m experienceModel) View() string {
	var b strings.Builder
	plan := m.exp.Plan()
	b.WriteString(titleStyle.Render(plan.DisplayName()) + "\n")

	if m.countdown != nil {
		if m.remaining.Started {
			b.WriteString(okStyle.Render("The trip has started!") + "\n")
		} else {
			b.WriteString(fmt.Sprintf("Starts in %s\n", warningStyle.Render(m.remaining.String())))
		}
	}

	p := m.exp.Progress()
	b.WriteString(m.bar.ViewAs(p.Percent/100) + " " + progressLine(p) + "\n")

	groups := m.exp.Groups()
	today := aggregate.CurrentDay(groups, m.now())
	row := 0
	for gi, g := range groups {
		heading := fmt.Sprintf("Day %d  %s  (%d/%d)", gi+1, g.Date.Format("Mon Jan 2"), g.Completed, len(g.Items))
		if gi == today {
			b.WriteString(todayStyle.Render(heading+"  today") + "\n")
		} else {
			b.WriteString(headingStyle.Render(heading) + "\n")
		}
		for _, it := range g.Items {
			line := fmt.Sprintf("%s %s  %s, %s", check(it.Completed), it.Datetime.Format("15:04"), it.Activity, it.City)
			if row == m.cursor {
				line = cursorStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
			row++
		}
	}

	if m.err != nil {
		b.WriteString(dangerStyle.Render("Could not save: "+m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ move · space toggle · q quit"))
	return b.String()
}
