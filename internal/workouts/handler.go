package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/jdvries/liftlog/internal/telemetry/metrics"
	"github.com/jdvries/liftlog/internal/telemetry/tracing"
	"github.com/jdvries/liftlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type setsRepo interface {
	Add(ctx context.Context, set Set) (*Set, error)
	Get(ctx context.Context, id int) (*Set, error)
	List(ctx context.Context, params ListParams) (_ []Set, total int, err error)
	ListAll(ctx context.Context, params SetParams) ([]Set, error)
	Update(ctx context.Context, set *Set) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, params SetParams) (int, error)
}

type exerciseCatalog interface {
	List(ctx context.Context, muscleGroup string) ([]Exercise, error)
}

// reportCache is notified on every write so cached dashboard
// reports for the owner get recomputed on the next read.
type reportCache interface {
	Invalidate(userID uuid.UUID)
}

type DeleteSetResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateSetResponse struct {
	UpdatedID int `json:"updatedId"`
}

type AddSetResponse struct {
	Set
	CountToday int `json:"countToday"`
}

type ListResponse struct {
	Sets  []Set `json:"sets"`
	Total int   `json:"total"`
}

type Handler struct {
	repo    setsRepo
	catalog exerciseCatalog
	cache   reportCache
	metrics *metrics.Manager
	ownerID uuid.UUID
}

func NewHandler(
	repo setsRepo,
	catalog exerciseCatalog,
	cache reportCache,
	metrics *metrics.Manager,
	ownerID uuid.UUID,
) *Handler {
	return &Handler{
		repo:    repo,
		catalog: catalog,
		cache:   cache,
		metrics: metrics,
		ownerID: ownerID,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var set Set
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Tracef("new workout set, unmarshal json params: %s", err)
		http.Error(w, "add workout set failed", http.StatusBadRequest)
		return
	}

	if set.ExerciseName == "" || set.MuscleGroups == "" {
		http.Error(w, "error, exercise name or muscle groups empty", http.StatusBadRequest)
		return
	}
	if set.WorkoutDate.IsZero() {
		http.Error(w, "error, workout date empty", http.StatusBadRequest)
		return
	}

	set.UserID = handler.ownerID
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now()
	}

	addedSet, err := handler.repo.Add(ctx, set)
	if err != nil {
		if errors.Is(err, ErrSetDuplicate) {
			http.Error(w, "workout set already exists", http.StatusConflict)
			return
		}
		log.Errorf("failed to add new workout set [%s], [%s]: %s", set.MuscleGroups, set.ExerciseName, err)
		http.Error(w, "error, failed to add new workout set", http.StatusInternalServerError)
		return
	}

	handler.cache.Invalidate(handler.ownerID)
	handler.metrics.CounterSetsAdded.Inc()

	todayMidnight := time.Now().Truncate(24 * time.Hour)
	tomorrowMidnight := todayMidnight.Add(24 * time.Hour)
	setsToday, err := handler.repo.ListAll(ctx, SetParams{
		UserID:       handler.ownerID,
		ExerciseName: addedSet.ExerciseName,
		From:         &todayMidnight,
		To:           &tomorrowMidnight,
	})
	if err != nil {
		// just log the error, no need to return error to the client
		log.Errorf("failed to get today's sets [%s]: %s", addedSet.ExerciseName, err)
	}

	addSetResponse := AddSetResponse{
		Set:        *addedSet,
		CountToday: len(setsToday),
	}

	addedSetJson, err := json.Marshal(addSetResponse)
	if err != nil {
		log.Errorf("failed to marshal new workout set: %s", err)
		http.Error(w, "error, failed to add new workout set", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout set added: %s", addedSetJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedSetJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id, err := setIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	set, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("failed to get workout set %d: %s", id, err)
		http.Error(w, "workout set not found", http.StatusBadRequest)
		return
	}

	setJson, err := json.Marshal(set)
	if err != nil {
		log.Errorf("failed to marshal workout set: %s", err)
		http.Error(w, "failed to marshal workout set", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, setJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id, err := setIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	set, err := handler.repo.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrSetNotFound) {
		log.Errorf("failed to get workout set %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	} else if errors.Is(err, ErrSetNotFound) {
		log.Debugf("workout set %d not found", id)
		http.Error(w, "workout set not found", http.StatusNotFound)
		return
	}

	log.Debugf("deleting workout set %+v", set)

	if err := handler.repo.Delete(ctx, id); err != nil {
		log.Errorf("failed to delete workout set %d: %s", id, err)
		http.Error(w, "workout set not deleted", http.StatusInternalServerError)
		return
	}

	handler.cache.Invalidate(handler.ownerID)

	deleteRespJson, err := json.Marshal(DeleteSetResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var set Set
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Errorf("update workout set, unmarshal json params: %s", err)
		http.Error(w, "update workout set failed", http.StatusBadRequest)
		return
	}

	if set.ExerciseName == "" || set.MuscleGroups == "" {
		http.Error(w, "error, exercise name or muscle groups empty", http.StatusBadRequest)
		return
	}

	currentSet, err := handler.repo.Get(ctx, set.ID)
	if err != nil && !errors.Is(err, ErrSetNotFound) {
		log.Errorf("failed to get workout set %d: %s", set.ID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	} else if errors.Is(err, ErrSetNotFound) {
		log.Debugf("workout set %d not found", set.ID)
		http.Error(w, "workout set not found", http.StatusNotFound)
		return
	}
	log.Debugf("update workout set %+v -> %+v", currentSet, set)

	set.UserID = handler.ownerID
	if err := handler.repo.Update(ctx, &set); err != nil {
		log.Errorf("failed to update workout set [%d], [%s]: %s", set.ID, set.ExerciseName, err)
		http.Error(w, "error, failed to update workout set", http.StatusInternalServerError)
		return
	}

	handler.cache.Invalidate(handler.ownerID)

	updateRespJson, err := json.Marshal(UpdateSetResponse{
		UpdatedID: set.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout set updated: [%s] [%s]: %d", set.MuscleGroups, set.ExerciseName, set.ID)
	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	vars := mux.Vars(r)
	pageStr := vars["page"]
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		log.Tracef("handle list workout sets, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	sizeStr := vars["size"]
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		log.Tracef("handle list workout sets, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	listParams := ListParams{
		SetParams: SetParams{
			UserID:       handler.ownerID,
			MuscleGroup:  r.URL.Query().Get("group"),
			ExerciseName: r.URL.Query().Get("exercise"),
		},
		Page: page,
		Size: size,
	}

	sets, total, err := handler.repo.List(ctx, listParams)
	if err != nil {
		log.Errorf("list workout sets error: %s", err)
		http.Error(w, "failed to get workout sets", http.StatusInternalServerError)
		return
	}

	listResponse := ListResponse{
		Sets:  sets,
		Total: total,
	}

	listResponseJson, err := json.Marshal(listResponse)
	if err != nil {
		log.Errorf("marshal workout sets error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.exercises")
	defer span.End()

	exercises, err := handler.catalog.List(ctx, r.URL.Query().Get("group"))
	if err != nil {
		log.Errorf("list exercise catalog error: %s", err)
		http.Error(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}

	exercisesJson, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("marshal exercise catalog error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exercisesJson, http.StatusOK)
}

func setIDFromRequest(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}
