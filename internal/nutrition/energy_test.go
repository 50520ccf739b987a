package nutrition_test

import (
	"testing"

	"github.com/NadavFredi/diet-neta-sub003/internal/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergyExpenditure_BMRFormulas(t *testing.T) {
	in := nutrition.CalculatorInputs{
		WeightKg: 70,
		HeightCm: 175,
		AgeYears: 30,
		Gender:   nutrition.GenderMale,
		PAL:      1.2,
	}

	ee := nutrition.CalculateEnergyExpenditure(in, nil, nil)

	// 10*70 + 6.25*175 - 5*30 + 5
	assert.InDelta(t, 1648.75, ee.BMR.MifflinStJeor, 0.01)
	// 88.362 + 13.397*70 + 4.799*175 - 5.677*30
	assert.InDelta(t, 1695.667, ee.BMR.HarrisBenedict, 0.1)

	// no lean body mass: Katch-McArdle excluded, never substituted with 0
	assert.Nil(t, ee.BMR.KatchMcArdle)
	assert.InDelta(t, (1648.75+1695.667)/2, ee.BMR.Average, 0.1)
}

func TestEnergyExpenditure_Female(t *testing.T) {
	in := nutrition.CalculatorInputs{
		WeightKg: 62,
		HeightCm: 165,
		AgeYears: 28,
		Gender:   nutrition.GenderFemale,
		PAL:      1.2,
	}

	ee := nutrition.CalculateEnergyExpenditure(in, nil, nil)

	// 10*62 + 6.25*165 - 5*28 - 161
	assert.InDelta(t, 1350.25, ee.BMR.MifflinStJeor, 0.01)
	// 447.593 + 9.247*62 + 3.098*165 - 4.330*28
	assert.InDelta(t, 1413.18, ee.BMR.HarrisBenedict, 0.1)
}

func TestEnergyExpenditure_KatchMcArdle(t *testing.T) {
	in := nutrition.CalculatorInputs{
		WeightKg: 70,
		HeightCm: 175,
		AgeYears: 30,
		Gender:   nutrition.GenderMale,
		PAL:      1.2,
	}

	lbm := 58.143386
	ee := nutrition.CalculateEnergyExpenditure(in, &lbm, nil)

	require.NotNil(t, ee.BMR.KatchMcArdle)
	assert.InDelta(t, 370+21.6*lbm, *ee.BMR.KatchMcArdle, 0.01)

	expectedAvg := (1648.75 + 1695.667 + 370 + 21.6*lbm) / 3
	assert.InDelta(t, expectedAvg, ee.BMR.Average, 0.1)
}

func TestEnergyExpenditure_Exercise(t *testing.T) {
	activities := []nutrition.ActivityEntry{
		{ID: "a1", ActivityType: "running", METs: 6, MinutesPerWeek: 150},
	}

	// 6*3.5*70/200 = 7.35 kcal/min -> 7.35*150/7 = 157.5 kcal/day
	weekly := nutrition.WeeklyExerciseEnergy(70, activities)
	assert.InDelta(t, 7.35*150, weekly, 0.001)

	in := nutrition.CalculatorInputs{
		WeightKg: 70,
		HeightCm: 175,
		AgeYears: 30,
		Gender:   nutrition.GenderMale,
		PAL:      1.55,
	}
	ee := nutrition.CalculateEnergyExpenditure(in, nil, activities)
	assert.InDelta(t, 157.5, ee.ExerciseKcalPerDay, 0.001)
	assert.InDelta(t, ee.BMR.Average*1.55+157.5, ee.TDEE, 0.01)
}

func TestEnergyExpenditure_InvalidEntriesContributeNothing(t *testing.T) {
	activities := []nutrition.ActivityEntry{
		{ID: "a1", METs: 0, MinutesPerWeek: 150},
		{ID: "a2", METs: 6, MinutesPerWeek: 0},
		{ID: "a3", METs: -2, MinutesPerWeek: 60},
	}
	assert.Zero(t, nutrition.WeeklyExerciseEnergy(70, activities))
	assert.Zero(t, nutrition.WeeklyExerciseEnergy(0, []nutrition.ActivityEntry{
		{ID: "a4", METs: 6, MinutesPerWeek: 60},
	}))
}
