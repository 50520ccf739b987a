package nutrition

// Targets are the daily calorie and macro-nutrient goals. This is the only
// externally persisted output of the engine. Values are unrounded grams and
// kcal; use Rounded for display.
type Targets struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// MacroPercentages is the display-only calorie share of each macro.
type MacroPercentages struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// CalculateTargets converts the total daily energy expenditure and the
// deficit/surplus setting into calorie and macro-gram targets.
//
// Protein and fat come straight from the per-kilogram ratios; carbs fill
// whatever calorie budget remains, so protein and fat act as the primary
// levers and carbohydrate is the balancing macro. That guarantees
// protein*4 + fat*9 + carbs*4 <= calories (equality unless carbs clamp at 0).
func CalculateTargets(in CalculatorInputs, tdee float64) Targets {
	var calories float64
	switch in.DeficitMode {
	case DeficitModeCalories:
		calories = tdee + float64(in.DeficitCalories)
	default:
		calories = tdee * (1 + float64(in.DeficitPercent)/100)
	}
	if calories < 0 {
		calories = 0
	}

	protein := in.ProteinPerKg * in.WeightKg
	fat := in.FatPerKg * in.WeightKg

	carbs := (calories - protein*4 - fat*9) / 4
	if carbs < 0 {
		carbs = 0
	}

	return Targets{
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
		Fiber:    FiberTarget(calories),
	}
}

// FiberTarget is the default heuristic of 14 grams per 1000 kcal. It is
// always computable, never blocked by missing measurements.
func FiberTarget(calories float64) float64 {
	if calories <= 0 {
		return 0
	}
	return 14 * calories / 1000
}

// CalculateMacroPercentages reports each macro's share of total macro
// calories. A zero total yields all-zero percentages, not NaN.
func CalculateMacroPercentages(t Targets) MacroPercentages {
	total := t.Protein*4 + t.Carbs*4 + t.Fat*9
	if total <= 0 {
		return MacroPercentages{}
	}
	return MacroPercentages{
		Protein: t.Protein * 4 / total * 100,
		Carbs:   t.Carbs * 4 / total * 100,
		Fat:     t.Fat * 9 / total * 100,
	}
}
