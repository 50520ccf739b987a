package nutrition_test

import (
	"testing"

	"github.com/NadavFredi/diet-neta-sub003/internal/nutrition"

	"github.com/stretchr/testify/assert"
)

func TestCoerceDecimal(t *testing.T) {
	assert.Equal(t, 82.5, nutrition.CoerceDecimal("82.5"))
	assert.Equal(t, 82.5, nutrition.CoerceDecimal("  82.5 "))
	assert.Zero(t, nutrition.CoerceDecimal(""))
	assert.Zero(t, nutrition.CoerceDecimal("abc"))
	assert.Zero(t, nutrition.CoerceDecimal("12,5"))
	assert.Zero(t, nutrition.CoerceDecimal("-3"))
}

func TestCoerceInt(t *testing.T) {
	assert.Equal(t, 34, nutrition.CoerceInt("34"))
	assert.Zero(t, nutrition.CoerceInt(""))
	assert.Zero(t, nutrition.CoerceInt("34.5"))
	assert.Zero(t, nutrition.CoerceInt("-12"))
}

func TestCoerceSignedInt(t *testing.T) {
	assert.Equal(t, -15, nutrition.CoerceSignedInt("-15"))
	assert.Equal(t, 250, nutrition.CoerceSignedInt(" 250"))
	assert.Zero(t, nutrition.CoerceSignedInt("x"))
	assert.Zero(t, nutrition.CoerceSignedInt(""))
}

func TestSnapActivityLevel(t *testing.T) {
	assert.Equal(t, 1.2, nutrition.SnapActivityLevel(0))
	assert.Equal(t, 1.2, nutrition.SnapActivityLevel(-3))
	assert.Equal(t, 1.2, nutrition.SnapActivityLevel(1.25))
	assert.Equal(t, 1.375, nutrition.SnapActivityLevel(1.4))
	assert.Equal(t, 1.55, nutrition.SnapActivityLevel(1.55))
	assert.Equal(t, 1.9, nutrition.SnapActivityLevel(7))
}

func TestNormalize(t *testing.T) {
	in := nutrition.CalculatorInputs{
		WeightKg:        -5,
		HeightCm:        -170,
		AgeYears:        -1,
		Gender:          nutrition.Gender("unknown"),
		WaistCm:         -80,
		PAL:             10,
		DeficitMode:     nutrition.DeficitMode("bogus"),
		DeficitPercent:  -99,
		DeficitCalories: 9000,
		ProteinPerKg:    12,
		FatPerKg:        -1,
		CarbsPerKg:      20,
	}
	in.Normalize()

	assert.Zero(t, in.WeightKg)
	assert.Zero(t, in.HeightCm)
	assert.Zero(t, in.AgeYears)
	assert.Equal(t, nutrition.GenderMale, in.Gender)
	assert.Zero(t, in.WaistCm)
	assert.Equal(t, 1.9, in.PAL)
	assert.Equal(t, nutrition.DeficitModePercent, in.DeficitMode)
	assert.Equal(t, nutrition.MinDeficitPercent, in.DeficitPercent)
	assert.Equal(t, nutrition.MaxDeficitCalories, in.DeficitCalories)
	assert.Equal(t, nutrition.MaxProteinPerKg, in.ProteinPerKg)
	assert.Zero(t, in.FatPerKg)
	assert.Equal(t, nutrition.MaxCarbsPerKg, in.CarbsPerKg)
}

func TestNormalize_ValidInputsUntouched(t *testing.T) {
	in := nutrition.DefaultInputs()
	in.WeightKg = 70
	in.HeightCm = 175
	in.AgeYears = 30
	in.WaistCm = 85
	in.NeckCm = 38
	in.PAL = 1.55

	normalized := in
	normalized.Normalize()
	assert.Equal(t, in, normalized)
}

func TestDefaultInputs(t *testing.T) {
	in := nutrition.DefaultInputs()
	assert.Equal(t, nutrition.GenderMale, in.Gender)
	assert.Equal(t, 1.2, in.PAL)
	assert.Equal(t, nutrition.DeficitModePercent, in.DeficitMode)
	assert.Equal(t, 1.8, in.ProteinPerKg)
	assert.Equal(t, 0.8, in.FatPerKg)
	assert.Equal(t, 3.0, in.CarbsPerKg)
}
