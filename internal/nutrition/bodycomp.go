package nutrition

import "math"

// BodyComposition is the output of the U.S. Navy circumference method.
// Nil fields mean "not computable" for the current measurements; the UI
// renders a placeholder instead of a number.
type BodyComposition struct {
	BodyFatPercent *float64 `json:"bodyFatPercent"`
	LeanBodyMassKg *float64 `json:"leanBodyMassKg"`
}

// CalculateBodyComposition derives body-fat percentage and lean body mass
// from circumference measurements. Missing measurements or a log argument
// that is not positive (e.g. waist <= neck on the male formula) yield nil,
// never NaN or an error.
func CalculateBodyComposition(in CalculatorInputs) BodyComposition {
	bodyFat := navyBodyFat(in)
	if bodyFat == nil {
		return BodyComposition{}
	}

	lbm := in.WeightKg * (1 - *bodyFat/100)
	return BodyComposition{
		BodyFatPercent: bodyFat,
		LeanBodyMassKg: &lbm,
	}
}

func navyBodyFat(in CalculatorInputs) *float64 {
	if in.HeightCm <= 0 || in.WaistCm <= 0 || in.NeckCm <= 0 {
		return nil
	}

	var logArg float64
	var denominator float64
	switch in.Gender {
	case GenderFemale:
		if in.HipCm <= 0 {
			return nil
		}
		logArg = in.WaistCm + in.HipCm - in.NeckCm
		if logArg <= 0 {
			return nil
		}
		denominator = 1.29579 - 0.35004*math.Log10(logArg) + 0.22100*math.Log10(in.HeightCm)
	default:
		logArg = in.WaistCm - in.NeckCm
		if logArg <= 0 {
			return nil
		}
		denominator = 1.0324 - 0.19077*math.Log10(logArg) + 0.15456*math.Log10(in.HeightCm)
	}

	if denominator == 0 {
		return nil
	}

	bodyFat := 495/denominator - 450
	if math.IsNaN(bodyFat) || math.IsInf(bodyFat, 0) {
		return nil
	}

	return &bodyFat
}
