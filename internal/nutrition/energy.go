package nutrition

import "math"

// BMRBreakdown holds the basal metabolic rate estimate of each supported
// formula. KatchMcArdle is nil when lean body mass is unknown and is then
// excluded from the average.
type BMRBreakdown struct {
	MifflinStJeor  float64  `json:"mifflinStJeor"`
	HarrisBenedict float64  `json:"harrisBenedict"`
	KatchMcArdle   *float64 `json:"katchMcArdle"`
	Average        float64  `json:"average"`
}

type EnergyExpenditure struct {
	BMR                BMRBreakdown `json:"bmr"`
	ExerciseKcalPerDay float64      `json:"exerciseKcalPerDay"`
	TDEE               float64      `json:"tdee"`
}

// CalculateEnergyExpenditure derives the BMR breakdown, the daily average
// energy spent on tracked exercise, and the total daily energy expenditure
// (BMR average scaled by PAL, plus exercise). All values are unrounded;
// rounding happens at the display boundary only.
func CalculateEnergyExpenditure(
	in CalculatorInputs,
	leanBodyMassKg *float64,
	activities []ActivityEntry,
) EnergyExpenditure {
	bmr := calculateBMR(in, leanBodyMassKg)
	exercise := WeeklyExerciseEnergy(in.WeightKg, activities) / 7

	return EnergyExpenditure{
		BMR:                bmr,
		ExerciseKcalPerDay: exercise,
		TDEE:               bmr.Average*in.PAL + exercise,
	}
}

func calculateBMR(in CalculatorInputs, leanBodyMassKg *float64) BMRBreakdown {
	var mifflin, harris float64
	if in.Gender == GenderFemale {
		mifflin = 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.AgeYears) - 161
		harris = 447.593 + 9.247*in.WeightKg + 3.098*in.HeightCm - 4.330*float64(in.AgeYears)
	} else {
		mifflin = 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.AgeYears) + 5
		harris = 88.362 + 13.397*in.WeightKg + 4.799*in.HeightCm - 5.677*float64(in.AgeYears)
	}

	breakdown := BMRBreakdown{
		MifflinStJeor:  mifflin,
		HarrisBenedict: harris,
	}

	if leanBodyMassKg != nil {
		katch := 370 + 21.6**leanBodyMassKg
		breakdown.KatchMcArdle = &katch
	}

	var sum float64
	var count int
	for _, v := range []*float64{&breakdown.MifflinStJeor, &breakdown.HarrisBenedict, breakdown.KatchMcArdle} {
		if v == nil {
			continue
		}
		if *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		sum += *v
		count++
	}
	if count > 0 {
		breakdown.Average = sum / float64(count)
	}

	return breakdown
}

// WeeklyExerciseEnergy sums the kcal burned per week over all activity
// entries: METs * 3.5 * weight / 200 kcal per minute. Entries with
// non-positive intensity or minutes contribute nothing, silently.
func WeeklyExerciseEnergy(weightKg float64, activities []ActivityEntry) float64 {
	if weightKg <= 0 {
		return 0
	}
	var total float64
	for _, entry := range activities {
		if entry.METs <= 0 || entry.MinutesPerWeek <= 0 {
			continue
		}
		kcalPerMinute := entry.METs * 3.5 * weightKg / 200
		total += kcalPerMinute * float64(entry.MinutesPerWeek)
	}
	return total
}
