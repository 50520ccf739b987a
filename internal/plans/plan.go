package plans

import (
	"time"

	"github.com/NadavFredi/diet-neta-sub003/internal/nutrition"
)

// Plan is a saved nutrition plan record. Only the final targets and the
// calculator-inputs snapshot are persisted; the BMR breakdown, exercise
// energy and body-fat values are recomputed from the inputs on next load.
// ManualFlags are stored so locked targets stay locked across reloads.
type Plan struct {
	ID          int                            `json:"id"`
	ClientName  string                         `json:"clientName"`
	Targets     nutrition.Targets              `json:"targets"`
	Inputs      nutrition.CalculatorInputs     `json:"calculator_inputs"`
	Activities  []nutrition.ActivityEntry      `json:"activities"`
	ManualFlags map[nutrition.TargetField]bool `json:"manual_flags"`
	CreatedAt   time.Time                      `json:"createdAt"`
	UpdatedAt   time.Time                      `json:"updatedAt"`
}
