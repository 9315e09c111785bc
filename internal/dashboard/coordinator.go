package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pkordes/trip-planner/internal/aggregate"
	"github.com/pkordes/trip-planner/internal/csvexport"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/logger"
)

// State is where the coordinator is in getting a plan on screen.
type State int

const (
	NoPlan State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "no plan"
}

// Deps is what a Coordinator is built from.
type Deps struct {
	Plans     PlanStore
	Itinerary ItemStore[domain.ItineraryItem, domain.ItineraryPatch]
	Budget    ItemStore[domain.BudgetItem, domain.BudgetPatch]
	Packing   ItemStore[domain.PackingItem, domain.PackingPatch]
	Confirmer Confirmer
	Notifier  Notifier
	Clipboard Clipboard
	// BaseURL is the public root share links are built on.
	BaseURL string
	Logger  *log.Logger
}

// Coordinator keeps the three item lists on one selected plan and refreshes
// all of them after any mutation settles.
type Coordinator struct {
	Itinerary *ItineraryList
	Budget    *BudgetList
	Packing   *PackingList

	plans   PlanStore
	confirm Confirmer
	notify  Notifier
	clip    Clipboard
	baseURL string
	log     *log.Logger
	start   singleflight.Group

	mu     sync.Mutex
	state  State
	plan   domain.Plan
	all    []domain.Plan
	target uuid.UUID
	gen    uint64
}

// NewCoordinator wires the three lists to d and subscribes to their
// settle events.
func NewCoordinator(d Deps) *Coordinator {
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	c := &Coordinator{
		Itinerary: NewItemList(ItineraryKind(), d.Itinerary, d.Confirmer),
		Budget:    NewItemList(BudgetKind(), d.Budget, d.Confirmer),
		Packing:   NewItemList(PackingKind(), d.Packing, d.Confirmer),
		plans:     d.Plans,
		confirm:   d.Confirmer,
		notify:    d.Notifier,
		clip:      d.Clipboard,
		baseURL:   strings.TrimRight(d.BaseURL, "/"),
		log:       d.Logger,
	}
	c.Itinerary.OnSettle(c.onSettle)
	c.Budget.OnSettle(c.onSettle)
	c.Packing.OnSettle(c.onSettle)
	return c
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start lists the user's plans, creates a default one when there are none,
// and selects the first. Concurrent calls share one run, so at most one
// default plan is created.
func (c *Coordinator) Start(ctx context.Context) error {
	_, err, _ := c.start.Do("start", func() (any, error) {
		plans, err := c.plans.ListPlans(ctx)
		if err != nil {
			return nil, err
		}
		if len(plans) == 0 {
			p, err := c.plans.CreatePlan(ctx, domain.PlanPatch{})
			if err != nil {
				return nil, err
			}
			c.log.Info("created default plan", "plan", p.ID)
			plans = []domain.Plan{p}
		}

		c.mu.Lock()
		c.all = plans
		c.mu.Unlock()
		return nil, c.Select(ctx, plans[0].ID)
	})
	// Another selection overtook the first one and owns the outcome.
	if err != nil && !errors.Is(err, ErrSuperseded) {
		return fmt.Errorf("dashboard.Coordinator.Start: %w", err)
	}
	return nil
}

// Plans returns the known plans, newest first.
func (c *Coordinator) Plans() []domain.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.all)
}

// Select makes planID current and loads its three collections
// concurrently. They are committed together. If the load fails, the plan
// that was on screen stays selected. If a later Select or Refresh starts
// before this one finishes, its results are dropped and ErrSuperseded is
// returned.
func (c *Coordinator) Select(ctx context.Context, planID uuid.UUID) error {
	c.mu.Lock()
	if _, ok := c.findLocked(planID); !ok {
		c.mu.Unlock()
		return fmt.Errorf("dashboard.Coordinator.Select: %w", domain.ErrNotFound)
	}
	c.target = planID
	c.state = Loading
	gen := c.nextGenLocked()
	c.mu.Unlock()

	if err := c.load(ctx, planID, gen); err != nil {
		return fmt.Errorf("dashboard.Coordinator.Select: %w", err)
	}
	return nil
}

// Refresh reloads all three collections of the selected plan.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	planID := c.target
	if planID == uuid.Nil {
		c.mu.Unlock()
		return ErrNoPlan
	}
	gen := c.nextGenLocked()
	c.mu.Unlock()

	if err := c.load(ctx, planID, gen); err != nil {
		return fmt.Errorf("dashboard.Coordinator.Refresh: %w", err)
	}
	return nil
}

func (c *Coordinator) onSettle(ctx context.Context) {
	if err := c.Refresh(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, ErrSuperseded) {
		c.log.Warn("refresh after change failed", "err", err)
	}
}

func (c *Coordinator) nextGenLocked() uint64 {
	c.gen++
	return c.gen
}

// load fetches planID's collections and settles load number gen. Only the
// newest load may change the coordinator: it commits on success and falls
// back to the plan on screen on failure.
func (c *Coordinator) load(ctx context.Context, planID uuid.UUID, gen uint64) error {
	var (
		itinerary []domain.ItineraryItem
		budget    []domain.BudgetItem
		packing   []domain.PackingItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		itinerary, err = c.Itinerary.store.List(gctx, planID)
		return err
	})
	g.Go(func() (err error) {
		budget, err = c.Budget.store.List(gctx, planID)
		return err
	})
	g.Go(func() (err error) {
		packing, err = c.Packing.store.List(gctx, planID)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		if err == nil {
			c.log.Debug("discarding superseded load", "plan", planID)
			err = ErrSuperseded
		}
		return err
	}
	plan, ok := c.findLocked(planID)
	if err == nil && !ok {
		err = domain.ErrNotFound
	}
	if err != nil {
		c.revertLocked()
		return err
	}

	c.plan = plan
	c.target = planID
	c.Itinerary.SetItems(planID, itinerary)
	c.Budget.SetItems(planID, budget)
	c.Packing.SetItems(planID, packing)
	c.state = Ready
	return nil
}

// revertLocked points the coordinator back at the plan on screen, or at no
// plan when nothing has been committed.
func (c *Coordinator) revertLocked() {
	c.target = c.plan.ID
	if c.plan.ID == uuid.Nil {
		c.state = NoPlan
		return
	}
	c.state = Ready
}

func (c *Coordinator) findLocked(id uuid.UUID) (domain.Plan, bool) {
	for _, p := range c.all {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Plan{}, false
}

// current returns the selected plan or ErrNoPlan.
func (c *Coordinator) current() (domain.Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		return domain.Plan{}, ErrNoPlan
	}
	return c.plan, nil
}

// ShareURL returns the public experience link of planID.
func (c *Coordinator) ShareURL(planID uuid.UUID) string {
	return c.baseURL + "/experience/" + planID.String()
}

// ToggleVisibility flips the current plan between PRIVATE and PUBLIC.
// Going public asks first and then copies the share link to the clipboard;
// going private does neither.
func (c *Coordinator) ToggleVisibility(ctx context.Context) (domain.Plan, error) {
	plan, err := c.current()
	if err != nil {
		return domain.Plan{}, err
	}

	next := plan.Visibility.Toggle()
	if next == domain.VisibilityPublic {
		if err := confirm(ctx, c.confirm, "Make this plan public? Anyone with the link will be able to view it."); err != nil {
			return plan, err
		}
	}

	updated, err := c.plans.UpdatePlan(ctx, plan.ID, domain.PlanPatch{Visibility: &next})
	if err != nil {
		return plan, fmt.Errorf("dashboard.Coordinator.ToggleVisibility: %w", err)
	}
	c.replacePlan(updated)

	if updated.Visibility == domain.VisibilityPublic {
		url := c.ShareURL(updated.ID)
		if err := c.clip.WriteText(url); err != nil {
			c.log.Warn("copying share link failed", "err", err)
			c.notify.Alert("Share link: " + url)
		} else {
			c.notify.Alert("Share link copied to clipboard")
		}
	}
	return updated, nil
}

func (c *Coordinator) replacePlan(p domain.Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.all {
		if c.all[i].ID == p.ID {
			c.all[i] = p
		}
	}
	if c.plan.ID == p.ID {
		c.plan = p
	}
}

// AddPlan creates a new private plan and selects it.
func (c *Coordinator) AddPlan(ctx context.Context) (domain.Plan, error) {
	p, err := c.plans.CreatePlan(ctx, domain.PlanPatch{})
	if err != nil {
		return domain.Plan{}, fmt.Errorf("dashboard.Coordinator.AddPlan: %w", err)
	}
	c.mu.Lock()
	c.all = append([]domain.Plan{p}, c.all...)
	c.mu.Unlock()

	if err := c.Select(ctx, p.ID); err != nil {
		return p, err
	}
	return p, nil
}

// DeletePlan removes plan id after confirmation. When it was the selected
// plan, the newest remaining plan is selected instead.
func (c *Coordinator) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if err := confirm(ctx, c.confirm, "Delete this plan and everything in it?"); err != nil {
		return err
	}
	if err := c.plans.DeletePlan(ctx, id); err != nil {
		return fmt.Errorf("dashboard.Coordinator.DeletePlan: %w", err)
	}

	c.mu.Lock()
	c.all = slices.DeleteFunc(c.all, func(p domain.Plan) bool { return p.ID == id })
	wasCurrent := c.target == id
	var next uuid.UUID
	if len(c.all) > 0 {
		next = c.all[0].ID
	}
	if wasCurrent && next == uuid.Nil {
		c.nextGenLocked()
		c.target = uuid.Nil
		c.plan = domain.Plan{}
		c.state = NoPlan
		c.Itinerary.SetItems(uuid.Nil, nil)
		c.Budget.SetItems(uuid.Nil, nil)
		c.Packing.SetItems(uuid.Nil, nil)
	}
	c.mu.Unlock()

	if wasCurrent && next != uuid.Nil {
		return c.Select(ctx, next)
	}
	return nil
}

// ExportFilename returns the default file name for exporting kind.
func (c *Coordinator) ExportFilename(kind domain.Kind) (string, error) {
	plan, err := c.current()
	if err != nil {
		return "", err
	}
	return csvexport.Filename(kind, plan.ID), nil
}

// Export writes kind's in-memory collection to w as CSV. An empty
// collection alerts the user and writes nothing.
func (c *Coordinator) Export(kind domain.Kind, w io.Writer) error {
	if _, err := c.current(); err != nil {
		return err
	}

	var t csvexport.Table
	switch kind {
	case domain.KindItinerary:
		t = c.Itinerary.spec.Table(c.Itinerary.Items())
	case domain.KindBudget:
		t = c.Budget.spec.Table(c.Budget.Items())
	case domain.KindPacking:
		t = c.Packing.spec.Table(c.Packing.Items())
	default:
		return fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, kind)
	}

	if t.Len() == 0 {
		c.notify.Alert(fmt.Sprintf("There is no %s data to export.", kind))
		return ErrNothingToExport
	}
	return csvexport.Write(w, t)
}

// Snapshot is a consistent view of the selected plan.
type Snapshot struct {
	State     State
	Plan      domain.Plan
	Plans     []domain.Plan
	Itinerary []domain.ItineraryItem
	Budget    []domain.BudgetItem
	Packing   []domain.PackingItem

	BudgetSummary     aggregate.BudgetSummary
	PackingProgress   aggregate.Progress
	ItineraryProgress aggregate.Progress
}

// Snapshot returns the plan and its three collections as of one commit.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		State:     c.state,
		Plan:      c.plan,
		Plans:     slices.Clone(c.all),
		Itinerary: c.Itinerary.Items(),
		Budget:    c.Budget.Items(),
		Packing:   c.Packing.Items(),
	}
	s.BudgetSummary = aggregate.Budget(s.Budget)
	s.PackingProgress = aggregate.Packing(s.Packing)
	s.ItineraryProgress = aggregate.ItineraryProgress(s.Itinerary)
	return s
}
