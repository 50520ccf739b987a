package nutrition

import "math"

// TargetField names one lockable field of Targets.
type TargetField string

const (
	FieldCalories TargetField = "calories"
	FieldProtein  TargetField = "protein"
	FieldCarbs    TargetField = "carbs"
	FieldFat      TargetField = "fat"
	FieldFiber    TargetField = "fiber"
)

// TargetFields is the fixed set of lockable fields, in display order.
var TargetFields = []TargetField{FieldCalories, FieldProtein, FieldCarbs, FieldFat, FieldFiber}

func ValidTargetField(f TargetField) bool {
	switch f {
	case FieldCalories, FieldProtein, FieldCarbs, FieldFat, FieldFiber:
		return true
	}
	return false
}

// Override is the per-field state: either auto (recompute writes it) or
// manual with a pinned value. A manual value survives recomputation
// byte-for-byte until the field is explicitly unlocked or edited again.
type Override struct {
	Manual bool    `json:"manual"`
	Value  float64 `json:"value,omitempty"`
}

// OverrideLedger tracks which target fields are author-controlled. Fields
// absent from the map are auto.
type OverrideLedger struct {
	overrides map[TargetField]Override
}

func NewOverrideLedger() *OverrideLedger {
	return &OverrideLedger{
		overrides: make(map[TargetField]Override),
	}
}

// Pin moves a field to manual with the given value. Editing an already
// manual field just replaces the pinned value.
func (l *OverrideLedger) Pin(field TargetField, value float64) {
	l.overrides[field] = Override{Manual: true, Value: value}
}

// Unlock moves a field back to auto. This is the only manual -> auto
// transition; recomputation never clears a lock on its own.
func (l *OverrideLedger) Unlock(field TargetField) {
	delete(l.overrides, field)
}

func (l *OverrideLedger) IsManual(field TargetField) bool {
	return l.overrides[field].Manual
}

// AnyAuto reports whether at least one field would accept a recomputed
// value. When false, a scheduled recompute has nothing to write.
func (l *OverrideLedger) AnyAuto() bool {
	return len(l.overrides) < len(TargetFields)
}

// ApplyCalculated merges freshly calculated targets with the ledger:
// auto fields take the calculated value, manual fields keep their pinned
// value untouched even if it drifts from what the formulas now produce.
// This is the central invariant of the engine.
func (l *OverrideLedger) ApplyCalculated(calculated Targets) Targets {
	merged := calculated
	for field, ov := range l.overrides {
		if !ov.Manual {
			continue
		}
		switch field {
		case FieldCalories:
			merged.Calories = ov.Value
		case FieldProtein:
			merged.Protein = ov.Value
		case FieldCarbs:
			merged.Carbs = ov.Value
		case FieldFat:
			merged.Fat = ov.Value
		case FieldFiber:
			merged.Fiber = ov.Value
		}
	}
	return merged
}

// Flags returns the plain per-field manual flag map, the shape persisted
// with a saved plan so locks survive a reload.
func (l *OverrideLedger) Flags() map[TargetField]bool {
	flags := make(map[TargetField]bool, len(TargetFields))
	for _, field := range TargetFields {
		flags[field] = l.IsManual(field)
	}
	return flags
}

// Restore re-marks fields manual from persisted flags, pinning them to the
// matching values of the loaded targets.
func (l *OverrideLedger) Restore(flags map[TargetField]bool, targets Targets) {
	for field, manual := range flags {
		if !manual || !ValidTargetField(field) {
			continue
		}
		l.Pin(field, targets.Field(field))
	}
}

// Field returns the value of a single target field.
func (t Targets) Field(field TargetField) float64 {
	switch field {
	case FieldCalories:
		return t.Calories
	case FieldProtein:
		return t.Protein
	case FieldCarbs:
		return t.Carbs
	case FieldFat:
		return t.Fat
	case FieldFiber:
		return t.Fiber
	}
	return 0
}

// Rounded returns the whole-unit display form of the targets. Unrounded
// values keep propagating internally.
func (t Targets) Rounded() Targets {
	return Targets{
		Calories: math.Round(t.Calories),
		Protein:  math.Round(t.Protein),
		Carbs:    math.Round(t.Carbs),
		Fat:      math.Round(t.Fat),
		Fiber:    math.Round(t.Fiber),
	}
}
