package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/NadavFredi/diet-neta-sub003/internal/telemetry/tracing"
	"github.com/NadavFredi/diet-neta-sub003/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=plans_mocks_test.go -package=plans_test

type plansRepo interface {
	Add(ctx context.Context, plan Plan) (*Plan, error)
	Update(ctx context.Context, plan Plan) error
	Get(ctx context.Context, id int) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
	Delete(ctx context.Context, id int) error
}

type ListResponse struct {
	Plans []Plan `json:"plans"`
	Total int    `json:"total"`
}

type DeletePlanResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo  plansRepo
	cache *Cache
}

func NewHandler(repo plansRepo) *Handler {
	return &Handler{
		repo:  repo,
		cache: NewCache(),
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/plans", handler.HandleList).Methods("GET", "OPTIONS").Name("list-plans")
	r.HandleFunc("/plans/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-plan")
	r.HandleFunc("/plans/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-plan")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.list")
	defer span.End()

	plansList, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list plans: %s", err)
		http.Error(w, "error, failed to list plans", http.StatusInternalServerError)
		return
	}
	if plansList == nil {
		plansList = []Plan{}
	}

	resp, err := json.Marshal(ListResponse{
		Plans: plansList,
		Total: len(plansList),
	})
	if err != nil {
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.get")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, plan id invalid", http.StatusBadRequest)
		return
	}

	if plan, ok := handler.cache.Get(id); ok {
		handler.sendPlan(w, plan)
		return
	}

	plan, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("get plan %d: %s", id, err)
		http.Error(w, "error, failed to get plan", http.StatusInternalServerError)
		return
	}

	handler.cache.Set(plan)
	handler.sendPlan(w, plan)
}

func (handler *Handler) sendPlan(w http.ResponseWriter, plan *Plan) {
	resp, err := json.Marshal(plan)
	if err != nil {
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, plan id invalid", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete plan %d: %s", id, err)
		http.Error(w, "error, failed to delete plan", http.StatusInternalServerError)
		return
	}

	handler.cache.Invalidate(id)

	resp, err := json.Marshal(DeletePlanResponse{DeletedID: id})
	if err != nil {
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}
