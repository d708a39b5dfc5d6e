package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/platform/obs"
	"github.com/jcmacallan-svg/ww1/internal/ports"
)

// Sentinel errors callers are expected to branch on.
var (
	// ErrNoPlan means an edit arrived before any plan was generated or
	// restored for the current inputs.
	ErrNoPlan = errors.New("session: no active plan")
	// ErrNoDraft means no persisted draft exists for the current
	// favorites/settings key.
	ErrNoDraft = errors.New("session: no saved draft")
)

// Storage keys inside a catalogue namespace.
const (
	keyFavorites   = "favorites"
	keySettings    = "plan_settings"
	keySlotPins    = "slot_pins"
	draftKeyPrefix = "draft:"
)

// Session is the explicit planning context for one catalogue: the
// persisted favorites, settings, and slot pins, plus the in-memory plan.
// Nothing planning-related lives in package globals; switching catalogues
// means building a new session, which swaps all of this state wholesale.
//
// All methods serialize on an internal mutex. The browser original was
// single-threaded; behind an HTTP server the same model holds by
// construction.
type Session struct {
	mu sync.Mutex

	catalog  *ports.Catalog
	store    ports.KVStore
	resolver *Resolver
	cfg      Config

	settings  domain.PlanSettings
	favorites []string
	pins      SlotPins

	plan    *domain.Plan
	planKey string

	// categories caches the per-POI classification, computed once.
	categories map[string]domain.Category
}

// NewSession loads a catalogue's persisted planning state and returns a
// ready session. Missing state falls back to the catalogue defaults.
func NewSession(ctx context.Context, catalog *ports.Catalog, store ports.KVStore, resolver *Resolver, cfg Config) (*Session, error) {
	if catalog == nil {
		return nil, errors.New("session: catalogue must be non-nil")
	}
	s := &Session{
		catalog:    catalog,
		store:      store,
		resolver:   resolver,
		cfg:        cfg,
		settings:   domain.DefaultPlanSettings(catalog.Settings),
		pins:       SlotPins{},
		categories: make(map[string]domain.Category),
	}

	var favs []string
	ok, err := store.Get(ctx, catalog.ID, keyFavorites, &favs)
	if err != nil {
		return nil, fmt.Errorf("session: load favorites: %w", err)
	}
	if ok {
		s.favorites = s.knownIDs(favs)
	}

	var st domain.PlanSettings
	ok, err = store.Get(ctx, catalog.ID, keySettings, &st)
	if err != nil {
		return nil, fmt.Errorf("session: load settings: %w", err)
	}
	if ok {
		s.settings = s.sanitizeSettings(st)
	}

	var pins SlotPins
	ok, err = store.Get(ctx, catalog.ID, keySlotPins, &pins)
	if err != nil {
		return nil, fmt.Errorf("session: load slot pins: %w", err)
	}
	if ok && pins != nil {
		s.pins = pins
	}

	return s, nil
}

// Catalog returns the catalogue this session plans against.
func (s *Session) Catalog() *ports.Catalog { return s.catalog }

// Favorites returns the starred POI ids, sorted.
func (s *Session) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.favorites...)
}

// SetFavorites replaces the favorites set and persists it. Ids the
// catalogue does not know are dropped. A changed set orphans the current
// draft key, so the active plan is discarded and rebuilt on the next
// EnsurePlan.
func (s *Session) SetFavorites(ctx context.Context, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs := s.knownIDs(ids)
	if err := s.store.Put(ctx, s.catalog.ID, keyFavorites, favs); err != nil {
		return nil, fmt.Errorf("session: save favorites: %w", err)
	}
	s.favorites = favs
	s.dropStalePlan()
	return append([]string(nil), favs...), nil
}

// Settings returns the current plan settings.
func (s *Session) Settings() domain.PlanSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySettings(s.settings)
}

// SetSettings normalizes, persists, and adopts new plan settings.
// Changes to day count, arrival, departure, or slot toggles orphan the
// current draft key; map provider and day start do not.
func (s *Session) SetSettings(ctx context.Context, in domain.PlanSettings) (domain.PlanSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.sanitizeSettings(in)
	if err := s.store.Put(ctx, s.catalog.ID, keySettings, st); err != nil {
		return domain.PlanSettings{}, fmt.Errorf("session: save settings: %w", err)
	}
	s.settings = st
	s.dropStalePlan()
	return copySettings(st), nil
}

// EnsurePlan returns the active plan, restoring the persisted draft for
// the current favorites/settings key when one exists and generating a
// fresh plan otherwise.
func (s *Session) EnsurePlan(ctx context.Context) (*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensurePlanLocked(ctx)
}

func (s *Session) ensurePlanLocked(ctx context.Context) (*domain.Plan, error) {
	key := s.draftKey()
	if s.plan != nil && s.planKey == key {
		return s.plan.Clone(), nil
	}

	var d domain.Draft
	ok, err := s.store.Get(ctx, s.catalog.ID, draftKeyPrefix+key, &d)
	if err != nil {
		return nil, fmt.Errorf("session: load draft: %w", err)
	}
	if ok && d.Version == domain.DraftVersion && d.Key == key {
		p := d.Plan
		// Stored totals are advisory; replay them from the stop lists.
		RecomputeAll(&p)
		s.plan = &p
		s.planKey = key
		return s.plan.Clone(), nil
	}

	return s.generateLocked(ctx)
}

// GeneratePlan always rebuilds the plan from the current favorites and
// settings, replacing any draft for the same key.
func (s *Session) GeneratePlan(ctx context.Context) (*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateLocked(ctx)
}

func (s *Session) generateLocked(ctx context.Context) (p *domain.Plan, err error) {
	defer obs.Time(ctx, "plan.generate")(&err)

	budgets := ComputeDayBudgets(s.settings.Days, s.settings.ArrivalSlot, s.settings.DepartureSlot)

	// Resolve sequentially, one POI at a time, to bound the load on the
	// external lookup services. A POI no source can place becomes a
	// leftover without coordinates.
	var cands []Candidate
	var unresolved []domain.Stop
	for _, id := range s.favorites {
		poi := s.catalog.POI(id)
		if poi == nil {
			continue
		}
		coord, ok := s.resolver.Resolve(ctx, s.catalog.ID, poi, s.catalog.Country)
		if !ok {
			unresolved = append(unresolved, domain.Stop{
				POIID:        poi.ID,
				Name:         poi.Name,
				VisitMinutes: EstimateVisitMinutes(poi),
			})
			continue
		}
		cands = append(cands, Candidate{POI: poi, Coord: coord, Visit: EstimateVisitMinutes(poi)})
	}

	sights, pools := SplitPools(cands, s.category, s.settings.EnabledSlots())

	plan := BuildPlan(sights, s.catalog.Settings.DefaultOrigin, budgets, s.catalog.Settings.AvgSpeedKmph, s.cfg)
	InsertSlots(plan, pools, s.pins, s.settings)
	plan.Leftovers = append(plan.Leftovers, unresolved...)

	s.plan = plan
	s.planKey = s.draftKey()
	if err := s.persistDraftLocked(ctx); err != nil {
		return nil, err
	}
	return plan.Clone(), nil
}

// Apply runs one manual edit through the single mutate-recompute-persist
// path. The command decides what changes; the session replays the
// touched days' statistics and persists the draft.
func (s *Session) Apply(ctx context.Context, cmd Command) (p *domain.Plan, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer obs.Time(ctx, "plan.apply")(&err)

	if s.plan == nil || s.planKey != s.draftKey() {
		return nil, ErrNoPlan
	}

	for _, day := range cmd.Apply(s.plan) {
		RecomputeDay(s.plan, day)
	}

	if pin, ok := cmd.(PinSlotChoice); ok {
		if err := s.persistPinLocked(ctx, pin); err != nil {
			return nil, err
		}
	}

	if err := s.persistDraftLocked(ctx); err != nil {
		return nil, err
	}
	return s.plan.Clone(), nil
}

// RestoreDraft replaces the in-memory plan with the last persisted
// draft for the current key.
func (s *Session) RestoreDraft(ctx context.Context) (*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.draftKey()
	var d domain.Draft
	ok, err := s.store.Get(ctx, s.catalog.ID, draftKeyPrefix+key, &d)
	if err != nil {
		return nil, fmt.Errorf("session: load draft: %w", err)
	}
	if !ok || d.Version != domain.DraftVersion || d.Key != key {
		return nil, ErrNoDraft
	}

	p := d.Plan
	RecomputeAll(&p)
	s.plan = &p
	s.planKey = key
	return s.plan.Clone(), nil
}

// DiscardDraft deletes the persisted draft for the current key and
// regenerates from settings.
func (s *Session) DiscardDraft(ctx context.Context) (*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, s.catalog.ID, draftKeyPrefix+s.draftKey()); err != nil {
		return nil, fmt.Errorf("session: delete draft: %w", err)
	}
	s.plan = nil
	s.planKey = ""
	return s.generateLocked(ctx)
}

func (s *Session) draftKey() string {
	return domain.DraftKey(s.catalog.ID, s.favorites, s.settings)
}

// dropStalePlan discards the in-memory plan once its key no longer
// matches the inputs. The old draft stays in storage, orphaned; undoing
// the input change finds it again.
func (s *Session) dropStalePlan() {
	if s.plan != nil && s.planKey != s.draftKey() {
		s.plan = nil
		s.planKey = ""
	}
}

func (s *Session) persistDraftLocked(ctx context.Context) error {
	d := domain.Draft{
		Version: domain.DraftVersion,
		ID:      uuid.NewString(),
		Key:     s.planKey,
		Plan:    *s.plan,
		SavedAt: time.Now().UTC(),
	}
	if err := s.store.Put(ctx, s.catalog.ID, draftKeyPrefix+s.planKey, d); err != nil {
		return fmt.Errorf("session: save draft: %w", err)
	}
	return nil
}

func (s *Session) persistPinLocked(ctx context.Context, pin PinSlotChoice) error {
	if pin.Day < 0 || !domain.ValidSlotName(pin.Slot) {
		return nil
	}
	if pin.POIID != "" && s.catalog.POI(pin.POIID) == nil {
		return nil
	}
	s.pins.Set(pin.Day, pin.Slot, pin.POIID)
	if err := s.store.Put(ctx, s.catalog.ID, keySlotPins, s.pins); err != nil {
		return fmt.Errorf("session: save slot pins: %w", err)
	}
	return nil
}

// knownIDs filters to ids the catalogue has, deduplicated and sorted.
func (s *Session) knownIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] || s.catalog.POI(id) == nil {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// sanitizeSettings normalizes incoming settings and restricts slot
// toggles to the slots this catalogue recognizes.
func (s *Session) sanitizeSettings(in domain.PlanSettings) domain.PlanSettings {
	out := in.Normalize()
	toggles := make(map[domain.SlotName]bool, len(s.catalog.Settings.RecurringSlots))
	for _, name := range s.catalog.Settings.RecurringSlots {
		if v, ok := out.SlotToggles[name]; ok {
			toggles[name] = v
		}
	}
	out.SlotToggles = toggles
	return out
}

// category returns the cached classification for a POI.
func (s *Session) category(p *domain.POI) domain.Category {
	if c, ok := s.categories[p.ID]; ok {
		return c
	}
	c := domain.Classify(p)
	s.categories[p.ID] = c
	return c
}

func copySettings(in domain.PlanSettings) domain.PlanSettings {
	out := in
	out.SlotToggles = make(map[domain.SlotName]bool, len(in.SlotToggles))
	for k, v := range in.SlotToggles {
		out.SlotToggles[k] = v
	}
	return out
}
