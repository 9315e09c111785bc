package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/aggregate"
	"github.com/pkordes/trip-planner/internal/client"
	"github.com/pkordes/trip-planner/internal/dashboard"
	"github.com/pkordes/trip-planner/internal/domain"
)

type planFlag struct {
	Plan string `help:"Plan ID (defaults to the newest plan)." short:"p" env:"TRIPCTL_PLAN"`
}

// LoginCmd stores a session token for the server.
type LoginCmd struct {
	Token string `help:"Session token from /api/auth/session. Prompted for when omitted."`
}

func (c *LoginCmd) Run(a *App) error {
	token := c.Token
	if token == "" {
		url, err := a.Client.SignInURL(a.Ctx)
		if err != nil {
			return fmt.Errorf("starting sign-in: %w", err)
		}
		fmt.Fprintln(a.Out, "Sign in with Google in your browser:")
		fmt.Fprintln(a.Out, "  "+url)
		fmt.Fprintf(a.Out, "then open %s/api/auth/session and copy the token.\n", a.Server)

		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Session token").
					EchoMode(huh.EchoModePassword).
					Value(&token).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("token cannot be empty")
						}
						return nil
					}),
			),
		).WithTheme(huh.ThemeDracula()).RunWithContext(a.Ctx)
		if err != nil {
			return err
		}
	}
	token = strings.TrimSpace(token)

	session, err := client.New(a.Server, client.WithToken(token)).Session(a.Ctx)
	if err != nil {
		return fmt.Errorf("checking token: %w", err)
	}
	if err := a.Tokens.Set(token); err != nil {
		return err
	}
	a.Log.Info("logged in", "user", session.User.ID)
	fmt.Fprintf(a.Out, "Signed in as %s\n", okStyle.Render(session.User.Email))
	return nil
}

// LogoutCmd forgets the stored token.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(a *App) error {
	if err := a.Tokens.Delete(); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "Signed out.")
	return nil
}

// WhoamiCmd prints the signed-in user.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(a *App) error {
	s, err := a.Client.Session(a.Ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			return ErrNotLoggedIn
		}
		return err
	}
	fmt.Fprintf(a.Out, "%s <%s>\n", s.User.Name, s.User.Email)
	return nil
}

// PlansCmd groups the plan subcommands.
type PlansCmd struct {
	List   PlansListCmd   `cmd:"" help:"List your plans." default:"1"`
	Add    PlansAddCmd    `cmd:"" help:"Create a new plan."`
	Delete PlansDeleteCmd `cmd:"" help:"Delete a plan and everything in it."`
}

type PlansListCmd struct{}

func (c *PlansListCmd) Run(a *App) error {
	coord, err := a.open("")
	if err != nil {
		return err
	}
	s := coord.Snapshot()
	fmt.Fprintln(a.Out, renderPlanList(s.Plans, s.Plan))
	return nil
}

type PlansAddCmd struct {
	Name string `help:"Name of the trip."`
}

func (c *PlansAddCmd) Run(a *App) error {
	coord, err := a.open("")
	if err != nil {
		return err
	}
	p, err := coord.AddPlan(a.Ctx)
	if err != nil {
		return err
	}
	if c.Name != "" {
		if p, err = a.Client.UpdatePlan(a.Ctx, p.ID, domain.PlanPatch{Name: &c.Name}); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.Out, "Created plan %s (%s)\n", p.ID, p.DisplayName())
	return nil
}

type PlansDeleteCmd struct {
	ID string `arg:"" help:"Plan ID."`
}

func (c *PlansDeleteCmd) Run(a *App) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return fmt.Errorf("invalid plan id %q: %w", c.ID, err)
	}
	coord, err := a.open("")
	if err != nil {
		return err
	}
	if err := coord.DeletePlan(a.Ctx, id); err != nil {
		if errors.Is(err, dashboard.ErrCancelled) {
			fmt.Fprintln(a.Out, "Cancelled.")
			return nil
		}
		return err
	}
	fmt.Fprintf(a.Out, "Deleted plan %s\n", id)
	return nil
}

// ShowCmd prints the dashboard of a plan.
type ShowCmd struct {
	planFlag
}

func (c *ShowCmd) Run(a *App) error {
	coord, err := a.open(c.Plan)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, renderSnapshot(coord.Snapshot()))
	return nil
}

// FieldsCmd lists the editable fields of a kind.
type FieldsCmd struct {
	Kind string `arg:"" enum:"itinerary,budget,packing" help:"Item kind."`
}

func (c *FieldsCmd) Run(a *App) error {
	var names []string
	var policy func(string) (dashboard.CommitPolicy, error)
	switch domain.Kind(c.Kind) {
	case domain.KindItinerary:
		k := dashboard.ItineraryKind()
		names, policy = k.Fields(), k.CommitPolicy
	case domain.KindBudget:
		k := dashboard.BudgetKind()
		names, policy = k.Fields(), k.CommitPolicy
	default:
		k := dashboard.PackingKind()
		names, policy = k.Fields(), k.CommitPolicy
	}
	t := newTable("FIELD", "SAVED ON")
	for _, n := range names {
		p, err := policy(n)
		if err != nil {
			return err
		}
		t.Row(n, p.String())
	}
	fmt.Fprintln(a.Out, t.String())
	return nil
}

// AddCmd adds an item with default values.
type AddCmd struct {
	planFlag
	Kind string `arg:"" enum:"itinerary,budget,packing" help:"Item kind."`
}

func (c *AddCmd) Run(a *App) error {
	coord, err := a.open(c.Plan)
	if err != nil {
		return err
	}
	switch domain.Kind(c.Kind) {
	case domain.KindItinerary:
		return addItem(a, coord.Itinerary)
	case domain.KindBudget:
		return addItem(a, coord.Budget)
	default:
		return addItem(a, coord.Packing)
	}
}

// SetCmd changes one field of an item.
type SetCmd struct {
	planFlag
	Kind  string `arg:"" enum:"itinerary,budget,packing" help:"Item kind."`
	ID    string `arg:"" help:"Item ID or unique prefix."`
	Field string `arg:"" help:"Field name (see 'tripctl fields')."`
	Value string `arg:"" help:"New value."`
}

func (c *SetCmd) Run(a *App) error {
	coord, err := a.open(c.Plan)
	if err != nil {
		return err
	}
	switch domain.Kind(c.Kind) {
	case domain.KindItinerary:
		return setField(a, coord.Itinerary, c.ID, c.Field, c.Value)
	case domain.KindBudget:
		return setField(a, coord.Budget, c.ID, c.Field, c.Value)
	default:
		return setField(a, coord.Packing, c.ID, c.Field, c.Value)
	}
}

// RmCmd deletes an item.
type RmCmd struct {
	planFlag
	Kind string `arg:"" enum:"itinerary,budget,packing" help:"Item kind."`
	ID   string `arg:"" help:"Item ID or unique prefix."`
}

func (c *RmCmd) Run(a *App) error {
	coord, err := a.open(c.Plan)
	if err != nil {
		return err
	}
	switch domain.Kind(c.Kind) {
	case domain.KindItinerary:
		return removeItem(a, coord.Itinerary, c.ID)
	case domain.KindBudget:
		return removeItem(a, coord.Budget, c.ID)
	default:
		return removeItem(a, coord.Packing, c.ID)
	}
}

func addItem[T domain.Item, P domain.Patch[T]](a *App, l *dashboard.ItemList[T, P]) error {
	item, err := l.Add(a.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Added %s item %s\n", l.Spec().Kind, item.ItemID())
	return nil
}

func setField[T domain.Item, P domain.Patch[T]](a *App, l *dashboard.ItemList[T, P], ref, field, value string) error {
	id, err := resolveID(l.Items(), ref)
	if err != nil {
		return err
	}
	if _, err := l.Update(a.Ctx, id, field, value); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Updated %s of %s\n", field, short(id.String()))
	return nil
}

func removeItem[T domain.Item, P domain.Patch[T]](a *App, l *dashboard.ItemList[T, P], ref string) error {
	id, err := resolveID(l.Items(), ref)
	if err != nil {
		return err
	}
	if err := l.Delete(a.Ctx, id); err != nil {
		if errors.Is(err, dashboard.ErrCancelled) {
			fmt.Fprintln(a.Out, "Cancelled.")
			return nil
		}
		return err
	}
	fmt.Fprintf(a.Out, "Deleted %s\n", short(id.String()))
	return nil
}

// resolveID finds the item whose id is ref or starts with ref.
func resolveID[T domain.Item](items []T, ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	ref = strings.ToLower(ref)
	var found uuid.UUID
	for _, it := range items {
		if strings.HasPrefix(it.ItemID().String(), ref) {
			if found != uuid.Nil {
				return uuid.Nil, fmt.Errorf("%w: id prefix %q is ambiguous", domain.ErrValidation, ref)
			}
			found = it.ItemID()
		}
	}
	if found == uuid.Nil {
		return uuid.Nil, fmt.Errorf("no item matches %q: %w", ref, domain.ErrNotFound)
	}
	return found, nil
}

// ExportCmd writes one kind of the plan as CSV.
type ExportCmd struct {
	planFlag
	Kind string `arg:"" enum:"itinerary,budget,packing" help:"Item kind."`
	Out  string `short:"o" help:"Output file, or - for stdout. Defaults to <kind>-<planId>.csv."`
}

func (c *ExportCmd) Run(a *App) error {
	coord, err := a.open(c.Plan)
	if err != nil {
		return err
	}
	kind := domain.Kind(c.Kind)

	var buf bytes.Buffer
	if err := coord.Export(kind, &buf); err != nil {
		if errors.Is(err, dashboard.ErrNothingToExport) {
			return nil
		}
		return err
	}

	if c.Out == "-" {
		_, err := a.Out.Write(append(buf.Bytes(), '\n'))
		return err
	}
	name := c.Out
	if name == "" {
		if name, err = coord.ExportFilename(kind); err != nil {
			return err
		}
	}
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	fmt.Fprintf(a.Out, "Wrote %s\n", name)
	return nil
}

// ShareCmd toggles a plan between private and public.
type ShareCmd struct {
	planFlag
	QR bool `help:"Print the share link as a QR code." default:"true" negatable:""`
}

func (c *ShareCmd) Run(a *App) error {
	coord, err := a.open(c.Plan)
	if err != nil {
		return err
	}
	p, err := coord.ToggleVisibility(a.Ctx)
	if err != nil {
		if errors.Is(err, dashboard.ErrCancelled) {
			fmt.Fprintln(a.Out, "Cancelled.")
			return nil
		}
		return err
	}
	if p.Visibility != domain.VisibilityPublic {
		fmt.Fprintln(a.Out, "Plan is now private.")
		return nil
	}

	url := coord.ShareURL(p.ID)
	fmt.Fprintf(a.Out, "Plan is now public: %s\n", url)
	if c.QR {
		qr, err := renderQR(url)
		if err != nil {
			return err
		}
		fmt.Fprint(a.Out, qr)
	}
	return nil
}

// ExperienceCmd opens the interactive view of a shared plan.
type ExperienceCmd struct {
	PlanID string `arg:"" help:"Public plan ID."`
}

func (c *ExperienceCmd) Run(a *App) error {
	exp, err := loadExperience(a, c.PlanID)
	if err != nil {
		return err
	}
	return runExperience(a.Ctx, exp)
}

// CountdownCmd prints the time left until a shared trip starts, once a
// second, until it starts.
type CountdownCmd struct {
	PlanID string `arg:"" help:"Public plan ID."`
}

func (c *CountdownCmd) Run(a *App) error {
	exp, err := loadExperience(a, c.PlanID)
	if err != nil {
		return err
	}
	cd := exp.Countdown()
	if cd == nil {
		fmt.Fprintln(a.Out, "The itinerary is empty.")
		return nil
	}
	cd.Run(a.Ctx, func(r aggregate.Remaining) {
		fmt.Fprintf(a.Out, "\r%s until %s   ", r, exp.Plan().DisplayName())
	})
	fmt.Fprintln(a.Out)
	return nil
}

func loadExperience(a *App, planID string) (*dashboard.Experience, error) {
	id, err := uuid.Parse(planID)
	if err != nil {
		return nil, fmt.Errorf("invalid plan id %q: %w", planID, err)
	}
	exp := dashboard.NewExperience(a.Client, a.Client.Itinerary(), nil)
	if err := exp.Load(a.Ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("plan %s is not public or does not exist", id)
		}
		return nil, err
	}
	return exp, nil
}
