package nutrition

import (
	"strconv"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type DeficitMode string

const (
	DeficitModePercent  DeficitMode = "percent"
	DeficitModeCalories DeficitMode = "calories"
)

// ActivityLevels is the fixed, ordered set of PAL multipliers the UI offers.
var ActivityLevels = []float64{1.2, 1.375, 1.55, 1.725, 1.9}

const (
	MinDeficitPercent  = -20
	MaxDeficitPercent  = 20
	MinDeficitCalories = -1500
	MaxDeficitCalories = 1500

	MaxProteinPerKg = 4.5
	MaxFatPerKg     = 3.0
	MaxCarbsPerKg   = 8.0
)

// CalculatorInputs holds the biometric and activity settings feeding the
// target calculation pipeline. Exactly one of DeficitPercent/DeficitCalories
// is authoritative, selected by DeficitMode.
type CalculatorInputs struct {
	WeightKg        float64     `json:"weightKg"`
	HeightCm        float64     `json:"heightCm"`
	AgeYears        int         `json:"ageYears"`
	Gender          Gender      `json:"gender"`
	WaistCm         float64     `json:"waistCm"`
	NeckCm          float64     `json:"neckCm"`
	HipCm           float64     `json:"hipCm"`
	PAL             float64     `json:"pal"`
	DeficitMode     DeficitMode `json:"deficitMode"`
	DeficitPercent  int         `json:"deficitPercent"`
	DeficitCalories int         `json:"deficitCalories"`
	ProteinPerKg    float64     `json:"proteinPerKg"`
	FatPerKg        float64     `json:"fatPerKg"`
	CarbsPerKg      float64     `json:"carbsPerKg"`
}

type ActivityEntry struct {
	ID             string  `json:"id"`
	ActivityType   string  `json:"activityType"`
	METs           float64 `json:"mets"`
	MinutesPerWeek int     `json:"minutesPerWeek"`
}

func DefaultInputs() CalculatorInputs {
	return CalculatorInputs{
		Gender:       GenderMale,
		PAL:          ActivityLevels[0],
		DeficitMode:  DeficitModePercent,
		ProteinPerKg: 1.8,
		FatPerKg:     0.8,
		CarbsPerKg:   3,
	}
}

// Normalize clamps all fields into their documented safe ranges and snaps
// PAL to the closest member of ActivityLevels. Out-of-range values are
// clamped rather than rejected: the engine never errors on numeric input.
func (in *CalculatorInputs) Normalize() {
	in.WeightKg = nonNegative(in.WeightKg)
	in.HeightCm = nonNegative(in.HeightCm)
	if in.AgeYears < 0 {
		in.AgeYears = 0
	}
	if in.Gender != GenderFemale {
		in.Gender = GenderMale
	}
	in.WaistCm = nonNegative(in.WaistCm)
	in.NeckCm = nonNegative(in.NeckCm)
	in.HipCm = nonNegative(in.HipCm)
	in.PAL = SnapActivityLevel(in.PAL)
	if in.DeficitMode != DeficitModeCalories {
		in.DeficitMode = DeficitModePercent
	}
	in.DeficitPercent = clampInt(in.DeficitPercent, MinDeficitPercent, MaxDeficitPercent)
	in.DeficitCalories = clampInt(in.DeficitCalories, MinDeficitCalories, MaxDeficitCalories)
	in.ProteinPerKg = clamp(in.ProteinPerKg, 0, MaxProteinPerKg)
	in.FatPerKg = clamp(in.FatPerKg, 0, MaxFatPerKg)
	in.CarbsPerKg = clamp(in.CarbsPerKg, 0, MaxCarbsPerKg)
}

// SnapActivityLevel returns the member of ActivityLevels closest to pal.
// Zero or negative values snap to the sedentary multiplier.
func SnapActivityLevel(pal float64) float64 {
	if pal <= 0 {
		return ActivityLevels[0]
	}
	closest := ActivityLevels[0]
	for _, level := range ActivityLevels[1:] {
		if abs(pal-level) < abs(pal-closest) {
			closest = level
		}
	}
	return closest
}

// CoerceDecimal parses a user-typed decimal field. Empty, non-numeric and
// negative text all coerce to 0 so that NaN never enters a formula.
func CoerceDecimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// CoerceInt is CoerceDecimal for whole-number fields.
func CoerceInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// CoerceSignedInt keeps the sign but still maps garbage to 0, for the
// deficit/surplus fields which legitimately go negative.
func CoerceSignedInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
