package editor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/NadavFredi/diet-neta-sub003/internal/nutrition"
	"github.com/NadavFredi/diet-neta-sub003/internal/plans"
	"github.com/NadavFredi/diet-neta-sub003/internal/telemetry/metrics"
	"github.com/NadavFredi/diet-neta-sub003/internal/telemetry/tracing"
	"github.com/NadavFredi/diet-neta-sub003/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=editor_mocks_test.go -package=editor_test

type plansRepo interface {
	Add(ctx context.Context, plan plans.Plan) (*plans.Plan, error)
	Update(ctx context.Context, plan plans.Plan) error
	Get(ctx context.Context, id int) (*plans.Plan, error)
}

type SavePlanResponse struct {
	PlanID int `json:"planId"`
}

// Handler is the HTTP surface of the nutrition target calculator: the
// editing form posts raw field edits and lock toggles here, and reads the
// derived state back.
type Handler struct {
	sessions *nutrition.SessionStore
	repo     plansRepo
	metrics  *metrics.Manager
}

func NewHandler(
	sessions *nutrition.SessionStore,
	repo plansRepo,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		sessions: sessions,
		repo:     repo,
		metrics:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router, rateLimit mux.MiddlewareFunc) {
	openRouter := r.PathPrefix("/nutrition/session").Subrouter()
	openRouter.Use(rateLimit)
	openRouter.HandleFunc("", handler.HandleOpen).Methods("POST", "OPTIONS").Name("open-session")

	r.HandleFunc("/nutrition/session/{id}", handler.HandleGetState).Methods("GET", "OPTIONS").Name("session-state")
	r.HandleFunc("/nutrition/session/{id}", handler.HandleDiscard).Methods("DELETE", "OPTIONS").Name("discard-session")
	r.HandleFunc("/nutrition/session/{id}/inputs", handler.HandleEditInputs).Methods("POST", "OPTIONS").Name("edit-inputs")
	r.HandleFunc("/nutrition/session/{id}/activities", handler.HandleUpsertActivity).Methods("POST", "OPTIONS").Name("upsert-activity")
	r.HandleFunc("/nutrition/session/{id}/activities/{activityId}", handler.HandleRemoveActivity).Methods("DELETE", "OPTIONS").Name("remove-activity")
	r.HandleFunc("/nutrition/session/{id}/targets/{field}", handler.HandleEditTarget).Methods("POST", "OPTIONS").Name("edit-target")
	r.HandleFunc("/nutrition/session/{id}/targets/{field}/lock", handler.HandleLock).Methods("POST", "OPTIONS").Name("lock-target")
	r.HandleFunc("/nutrition/session/{id}/targets/{field}/unlock", handler.HandleUnlock).Methods("POST", "OPTIONS").Name("unlock-target")
	r.HandleFunc("/nutrition/session/{id}/flush", handler.HandleFlush).Methods("POST", "OPTIONS").Name("flush-session")
	r.HandleFunc("/nutrition/session/{id}/save", handler.HandleSave).Methods("POST", "OPTIONS").Name("save-session")
}

func (handler *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.editor.open")
	defer span.End()

	session := handler.sessions.Open()

	if planIDParam := r.URL.Query().Get("plan"); planIDParam != "" {
		planID, err := strconv.Atoi(planIDParam)
		if err != nil {
			http.Error(w, "error, plan id invalid", http.StatusBadRequest)
			return
		}
		plan, err := handler.repo.Get(ctx, planID)
		if err != nil {
			if errors.Is(err, plans.ErrPlanNotFound) {
				http.Error(w, "plan not found", http.StatusNotFound)
				return
			}
			log.Errorf("open session, get plan %d: %s", planID, err)
			http.Error(w, "error, failed to load plan", http.StatusInternalServerError)
			return
		}
		session.SeedFromPlan(plan.Inputs, plan.Activities, plan.Targets, plan.ManualFlags)
	}

	handler.metrics.CounterSessionsOpened.Inc()
	handler.metrics.GaugeOpenSessions.Set(float64(handler.sessions.Len()))

	log.Debugf("new calculator session opened: %s", session.ID)
	handler.sendState(w, session)
}

func (handler *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.session(w, r)
	if !ok {
		return
	}
	handler.sendState(w, session)
}

func (handler *Handler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := handler.sessions.Close(vars["id"]); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	handler.metrics.GaugeOpenSessions.Set(float64(handler.sessions.Len()))
	pkg.WriteTextResponseOK(w, "discarded:"+vars["id"])
}

// HandleEditInputs applies a partial, form-encoded edit of the calculator
// inputs. Only the submitted fields change; every value goes through the
// text coercion rules (empty/garbage/negative -> 0) before entering a
// formula. Each call debounces a recompute of the unlocked targets.
func (handler *Handler) HandleEditInputs(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Errorf("edit calculator inputs failed, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusInternalServerError)
		return
	}

	inputs := session.Inputs()
	if r.Form.Has("weight") {
		inputs.WeightKg = nutrition.CoerceDecimal(r.Form.Get("weight"))
	}
	if r.Form.Has("height") {
		inputs.HeightCm = nutrition.CoerceDecimal(r.Form.Get("height"))
	}
	if r.Form.Has("age") {
		inputs.AgeYears = nutrition.CoerceInt(r.Form.Get("age"))
	}
	if r.Form.Has("gender") {
		inputs.Gender = nutrition.Gender(r.Form.Get("gender"))
	}
	if r.Form.Has("waist") {
		inputs.WaistCm = nutrition.CoerceDecimal(r.Form.Get("waist"))
	}
	if r.Form.Has("neck") {
		inputs.NeckCm = nutrition.CoerceDecimal(r.Form.Get("neck"))
	}
	if r.Form.Has("hip") {
		inputs.HipCm = nutrition.CoerceDecimal(r.Form.Get("hip"))
	}
	if r.Form.Has("pal") {
		inputs.PAL = nutrition.CoerceDecimal(r.Form.Get("pal"))
	}
	if r.Form.Has("deficit_mode") {
		inputs.DeficitMode = nutrition.DeficitMode(r.Form.Get("deficit_mode"))
	}
	if r.Form.Has("deficit_percent") {
		inputs.DeficitPercent = nutrition.CoerceSignedInt(r.Form.Get("deficit_percent"))
	}
	if r.Form.Has("deficit_calories") {
		inputs.DeficitCalories = nutrition.CoerceSignedInt(r.Form.Get("deficit_calories"))
	}
	if r.Form.Has("protein_per_kg") {
		inputs.ProteinPerKg = nutrition.CoerceDecimal(r.Form.Get("protein_per_kg"))
	}
	if r.Form.Has("fat_per_kg") {
		inputs.FatPerKg = nutrition.CoerceDecimal(r.Form.Get("fat_per_kg"))
	}
	if r.Form.Has("carbs_per_kg") {
		inputs.CarbsPerKg = nutrition.CoerceDecimal(r.Form.Get("carbs_per_kg"))
	}

	session.SetInputs(inputs)
	handler.sendState(w, session)
}

func (handler *Handler) HandleUpsertActivity(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.session(w, r)
	if !ok {
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var entry nutrition.ActivityEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Tracef("upsert activity, unmarshal json params: %s", err)
		http.Error(w, "upsert activity failed", http.StatusBadRequest)
		return
	}

	session.UpsertActivity(entry)
	handler.sendState(w, session)
}

func (handler *Handler) HandleRemoveActivity(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.session(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if !session.RemoveActivity(vars["activityId"]) {
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}
	handler.sendState(w, session)
}

// HandleEditTarget is an explicit edit of one target value: it pins the
// value and flips the field to manual in one move.
func (handler *Handler) HandleEditTarget(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.session(w, r)
	if !ok {
		return
	}

	field, ok := handler.targetField(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Errorf("edit target failed, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusInternalServerError)
		return
	}

	session.SetTargetValue(field, nutrition.CoerceDecimal(r.Form.Get("value")))
	handler.metrics.CounterManualLocks.Inc()
	handler.sendState(w, session)
}

func (handler *Handler) HandleLock(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.session(w, r)
	if !ok {
		return
	}
	field, ok := handler.targetField(w, r)
	if !ok {
		return
	}

	session.Lock(field)
	handler.metrics.CounterManualLocks.Inc()
	handler.sendState(w, session)
}

func (handler *Handler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.session(w, r)
	if !ok {
		return
	}
	field, ok := handler.targetField(w, r)
	if !ok {
		return
	}

	session.Unlock(field)
	handler.sendState(w, session)
}

func (handler *Handler) HandleFlush(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.session(w, r)
	if !ok {
		return
	}
	session.Flush()
	handler.sendState(w, session)
}

// HandleSave persists the session's snapshot to its plan record: the final
// targets plus the calculator inputs (and lock flags). All other derived
// values get recomputed from the inputs on next load.
func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.editor.save")
	var saveErr error
	defer func() {
		tracing.EndSpanWithErrCheck(span, saveErr)
	}()

	session, ok := handler.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Errorf("save plan failed, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusInternalServerError)
		return
	}

	clientName := r.Form.Get("client_name")
	if clientName == "" {
		http.Error(w, "error, client name empty", http.StatusBadRequest)
		return
	}

	// pending edits must land in the targets before the snapshot
	session.Flush()
	snapshot := session.Snapshot()

	plan := plans.Plan{
		ClientName:  clientName,
		Targets:     snapshot.Targets,
		Inputs:      snapshot.Inputs,
		Activities:  snapshot.Activities,
		ManualFlags: snapshot.ManualFlags,
	}

	planID := 0
	if planIDParam := r.Form.Get("plan_id"); planIDParam != "" {
		id, err := strconv.Atoi(planIDParam)
		if err != nil {
			http.Error(w, "error, plan id invalid", http.StatusBadRequest)
			return
		}
		plan.ID = id
		if err := handler.repo.Update(ctx, plan); err != nil {
			if errors.Is(err, plans.ErrPlanNotFound) {
				http.Error(w, "plan not found", http.StatusNotFound)
				return
			}
			saveErr = err
			log.Errorf("save plan %d: %s", id, err)
			http.Error(w, "error, failed to save plan", http.StatusInternalServerError)
			return
		}
		planID = id
	} else {
		added, err := handler.repo.Add(ctx, plan)
		if err != nil {
			saveErr = err
			log.Errorf("save new plan for [%s]: %s", clientName, err)
			http.Error(w, "error, failed to save plan", http.StatusInternalServerError)
			return
		}
		planID = added.ID
	}

	handler.metrics.CounterPlansSaved.Inc()
	log.Debugf("session [%s] saved to plan %d", session.ID, planID)

	resp, err := json.Marshal(SavePlanResponse{PlanID: planID})
	if err != nil {
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) session(w http.ResponseWriter, r *http.Request) (*nutrition.Session, bool) {
	vars := mux.Vars(r)
	session, err := handler.sessions.Get(vars["id"])
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (handler *Handler) targetField(w http.ResponseWriter, r *http.Request) (nutrition.TargetField, bool) {
	vars := mux.Vars(r)
	field := nutrition.TargetField(vars["field"])
	if !nutrition.ValidTargetField(field) {
		http.Error(w, "error, unknown target field", http.StatusBadRequest)
		return "", false
	}
	return field, true
}

func (handler *Handler) sendState(w http.ResponseWriter, session *nutrition.Session) {
	resp, err := json.Marshal(session.State())
	if err != nil {
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}
