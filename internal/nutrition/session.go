package nutrition

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/NadavFredi/diet-neta-sub003/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Session owns one editor's calculator state: the input model, the
// activity entries, the override ledger and the debounced recompute
// scheduler. All computed values (body composition, energy breakdown)
// are derived on demand; only targets + inputs get persisted on save.
type Session struct {
	ID string

	mu         sync.Mutex
	inputs     CalculatorInputs
	activities []ActivityEntry
	ledger     *OverrideLedger
	targets    Targets

	scheduler   *RecalcScheduler
	onRecompute func()
}

type NewSessionParams struct {
	Clock    Clock
	Debounce time.Duration
	// OnRecompute is called after every recompute run, for metrics.
	OnRecompute func()
	// OnDebounceCancel is called when a pending recompute gets replaced
	// by a newer edit.
	OnDebounceCancel func()
}

func NewSession(params NewSessionParams) *Session {
	if params.Clock == nil {
		params.Clock = NewRealClock()
	}
	scheduler := NewRecalcScheduler(params.Clock, params.Debounce)
	scheduler.OnCancel = params.OnDebounceCancel
	s := &Session{
		ID:          uuid.NewString(),
		inputs:      DefaultInputs(),
		ledger:      NewOverrideLedger(),
		scheduler:   scheduler,
		onRecompute: params.OnRecompute,
	}
	s.recomputeNow()
	return s
}

// SeedFromPlan loads a saved plan's calculator state into the session:
// inputs and activities are restored as-is, and every field flagged manual
// at save time is re-pinned to its saved value so locked targets are not
// silently recalculated away.
func (s *Session) SeedFromPlan(
	inputs CalculatorInputs,
	activities []ActivityEntry,
	targets Targets,
	manualFlags map[TargetField]bool,
) {
	s.mu.Lock()
	inputs.Normalize()
	s.inputs = inputs
	s.activities = append([]ActivityEntry(nil), activities...)
	s.ledger = NewOverrideLedger()
	s.ledger.Restore(manualFlags, targets)
	s.mu.Unlock()

	s.recomputeNow()
}

// SetInputs replaces the calculator inputs and debounces a recompute.
func (s *Session) SetInputs(inputs CalculatorInputs) {
	s.mu.Lock()
	inputs.Normalize()
	s.inputs = inputs
	s.mu.Unlock()

	s.scheduleRecalc()
}

// Inputs returns a copy of the current calculator inputs.
func (s *Session) Inputs() CalculatorInputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs
}

// UpsertActivity adds a new activity entry (assigning it an id) or replaces
// the entry with the same id, keeping the slice order stable for the UI.
func (s *Session) UpsertActivity(entry ActivityEntry) ActivityEntry {
	s.mu.Lock()
	if entry.METs < 0 {
		entry.METs = 0
	}
	if entry.MinutesPerWeek < 0 {
		entry.MinutesPerWeek = 0
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
		s.activities = append(s.activities, entry)
	} else {
		replaced := false
		for i := range s.activities {
			if s.activities[i].ID == entry.ID {
				s.activities[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			s.activities = append(s.activities, entry)
		}
	}
	s.mu.Unlock()

	s.scheduleRecalc()
	return entry
}

// RemoveActivity deletes an entry by id and reports whether it existed.
func (s *Session) RemoveActivity(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.activities {
		if s.activities[i].ID == id {
			s.activities = append(s.activities[:i], s.activities[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.scheduleRecalc()
	}
	return found
}

// SetTargetValue is an explicit edit of a target field: the value is
// pinned, the field becomes manual. Negative values coerce to 0.
func (s *Session) SetTargetValue(field TargetField, value float64) {
	if !ValidTargetField(field) {
		return
	}
	if value < 0 {
		value = 0
	}

	s.mu.Lock()
	s.ledger.Pin(field, value)
	s.targets = s.ledger.ApplyCalculated(s.targets)
	s.mu.Unlock()
}

// Lock pins a field at its current value without changing it.
func (s *Session) Lock(field TargetField) {
	if !ValidTargetField(field) {
		return
	}
	s.mu.Lock()
	s.ledger.Pin(field, s.targets.Field(field))
	s.mu.Unlock()
}

// Unlock returns a field to auto and recomputes immediately so it
// converges to the pure formula value for the current inputs.
func (s *Session) Unlock(field TargetField) {
	if !ValidTargetField(field) {
		return
	}
	s.mu.Lock()
	s.ledger.Unlock(field)
	s.mu.Unlock()

	s.recomputeNow()
}

// Flush runs the pending debounced recompute right away, if any.
func (s *Session) Flush() {
	s.scheduler.Flush(s.recompute)
}

// Close drops any pending recompute. The session holds no other resources.
func (s *Session) Close() {
	s.scheduler.Stop()
}

func (s *Session) scheduleRecalc() {
	s.mu.Lock()
	anyAuto := s.ledger.AnyAuto()
	s.mu.Unlock()

	if !anyAuto {
		return
	}
	s.scheduler.Trigger(s.recompute)
}

func (s *Session) recomputeNow() {
	s.scheduler.Stop()
	s.recompute()
}

// recompute runs the full pipeline: body composition -> energy
// expenditure -> macro targets, then merges through the ledger so manual
// fields stay untouched. Safe to run with every field manual: it simply
// writes nothing.
func (s *Session) recompute() {
	_, span := tracing.GlobalTracer.Start(context.Background(), "nutrition.session.recompute")
	defer span.End()

	s.mu.Lock()
	inputs := s.inputs
	activities := append([]ActivityEntry(nil), s.activities...)
	s.mu.Unlock()

	calculated := Recompute(inputs, activities)

	s.mu.Lock()
	s.targets = s.ledger.ApplyCalculated(calculated)
	targets := s.targets
	s.mu.Unlock()

	span.SetAttributes(attribute.String("session.id", s.ID))
	log.Tracef("session [%s]: recomputed targets, %0.f kcal", s.ID, targets.Calories)

	if s.onRecompute != nil {
		s.onRecompute()
	}
}

// Recompute is the pure pipeline over a single set of inputs: no session,
// no ledger, no scheduling.
func Recompute(inputs CalculatorInputs, activities []ActivityEntry) Targets {
	composition := CalculateBodyComposition(inputs)
	energy := CalculateEnergyExpenditure(inputs, composition.LeanBodyMassKg, activities)
	return CalculateTargets(inputs, energy.TDEE)
}

// SessionState is the full derived view served to the editing form.
type SessionState struct {
	ID              string               `json:"id"`
	Inputs          CalculatorInputs     `json:"inputs"`
	Activities      []ActivityEntry      `json:"activities"`
	BodyComposition BodyComposition      `json:"bodyComposition"`
	Energy          EnergyExpenditure    `json:"energy"`
	BMRDisplay      float64              `json:"bmrDisplay"`
	TDEEDisplay     float64              `json:"tdeeDisplay"`
	Targets         Targets              `json:"targets"`
	TargetsDisplay  Targets              `json:"targetsDisplay"`
	Percentages     MacroPercentages     `json:"macroPercentages"`
	Locks           map[TargetField]bool `json:"locks"`
}

// State derives the complete view for the current inputs and targets.
func (s *Session) State() SessionState {
	s.mu.Lock()
	inputs := s.inputs
	activities := append([]ActivityEntry(nil), s.activities...)
	targets := s.targets
	locks := s.ledger.Flags()
	s.mu.Unlock()

	composition := CalculateBodyComposition(inputs)
	energy := CalculateEnergyExpenditure(inputs, composition.LeanBodyMassKg, activities)

	return SessionState{
		ID:              s.ID,
		Inputs:          inputs,
		Activities:      activities,
		BodyComposition: composition,
		Energy:          energy,
		BMRDisplay:      math.Round(energy.BMR.Average),
		TDEEDisplay:     math.Round(energy.TDEE),
		Targets:         targets,
		TargetsDisplay:  targets.Rounded(),
		Percentages:     CalculateMacroPercentages(targets),
		Locks:           locks,
	}
}

// Snapshot is what gets persisted on save: the final targets plus the
// calculator inputs (and locks) needed to recompute everything on reload.
type Snapshot struct {
	Targets     Targets              `json:"targets"`
	Inputs      CalculatorInputs     `json:"calculator_inputs"`
	Activities  []ActivityEntry      `json:"activities"`
	ManualFlags map[TargetField]bool `json:"manual_flags"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Targets:     s.targets,
		Inputs:      s.inputs,
		Activities:  append([]ActivityEntry(nil), s.activities...),
		ManualFlags: s.ledger.Flags(),
	}
}
