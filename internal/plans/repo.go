package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NadavFredi/diet-neta-sub003/internal/nutrition"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPlanNotFound = errors.New("plan not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, plan Plan) (*Plan, error) {
	if plan.ClientName == "" {
		return nil, errors.New("plan client name empty")
	}

	inputsJson, activitiesJson, flagsJson, err := marshalPlanColumns(plan)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rows, err := r.db.Query(
		ctx,
		`INSERT INTO nutrition_plan
			(client_name, calories, protein, carbs, fat, fiber, calculator_inputs, activities, manual_flags, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id;`,
		plan.ClientName,
		plan.Targets.Calories, plan.Targets.Protein, plan.Targets.Carbs, plan.Targets.Fat, plan.Targets.Fiber,
		inputsJson, activitiesJson, flagsJson, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	plan.ID = id
	plan.CreatedAt = now
	plan.UpdatedAt = now
	return &plan, nil
}

func (r *Repo) Update(ctx context.Context, plan Plan) error {
	inputsJson, activitiesJson, flagsJson, err := marshalPlanColumns(plan)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE nutrition_plan SET
			client_name = $1, calories = $2, protein = $3, carbs = $4, fat = $5, fiber = $6,
			calculator_inputs = $7, activities = $8, manual_flags = $9, updated_at = $10
			WHERE id = $11;`,
		plan.ClientName,
		plan.Targets.Calories, plan.Targets.Protein, plan.Targets.Carbs, plan.Targets.Fat, plan.Targets.Fiber,
		inputsJson, activitiesJson, flagsJson, time.Now(), plan.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Plan, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT
			id, client_name, calories, protein, carbs, fat, fiber,
			calculator_inputs, activities, manual_flags, created_at, updated_at
			FROM nutrition_plan WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrPlanNotFound
	}

	return scanPlan(rows.Scan)
}

func (r *Repo) List(ctx context.Context) ([]Plan, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT
			id, client_name, calories, protein, carbs, fat, fiber,
			calculator_inputs, activities, manual_flags, created_at, updated_at
			FROM nutrition_plan ORDER BY updated_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		plan, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM nutrition_plan WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func marshalPlanColumns(plan Plan) (inputsJson, activitiesJson, flagsJson []byte, err error) {
	if inputsJson, err = json.Marshal(plan.Inputs); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal calculator inputs: %w", err)
	}
	if plan.Activities == nil {
		plan.Activities = []nutrition.ActivityEntry{}
	}
	if activitiesJson, err = json.Marshal(plan.Activities); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal activities: %w", err)
	}
	if plan.ManualFlags == nil {
		plan.ManualFlags = map[nutrition.TargetField]bool{}
	}
	if flagsJson, err = json.Marshal(plan.ManualFlags); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal manual flags: %w", err)
	}
	return inputsJson, activitiesJson, flagsJson, nil
}

func scanPlan(scan func(dest ...any) error) (*Plan, error) {
	var plan Plan
	var inputsJson, activitiesJson, flagsJson []byte
	if err := scan(
		&plan.ID, &plan.ClientName,
		&plan.Targets.Calories, &plan.Targets.Protein, &plan.Targets.Carbs, &plan.Targets.Fat, &plan.Targets.Fiber,
		&inputsJson, &activitiesJson, &flagsJson, &plan.CreatedAt, &plan.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	if err := json.Unmarshal(inputsJson, &plan.Inputs); err != nil {
		return nil, fmt.Errorf("unmarshal calculator inputs: %w", err)
	}
	if err := json.Unmarshal(activitiesJson, &plan.Activities); err != nil {
		return nil, fmt.Errorf("unmarshal activities: %w", err)
	}
	if err := json.Unmarshal(flagsJson, &plan.ManualFlags); err != nil {
		return nil, fmt.Errorf("unmarshal manual flags: %w", err)
	}

	return &plan, nil
}
