package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jdvries/liftlog/internal/telemetry/tracing"
	"github.com/jdvries/liftlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=analytics_test

type reportsService interface {
	Report(ctx context.Context, userID uuid.UUID, params Params) (*Report, error)
}

type Handler struct {
	service  reportsService
	defaults Params
	ownerID  uuid.UUID
}

func NewHandler(service reportsService, defaults Params, ownerID uuid.UUID) *Handler {
	return &Handler{
		service:  service,
		defaults: defaults,
		ownerID:  ownerID,
	}
}

func (handler *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.report")
	defer span.End()

	report, ok := handler.report(ctx, w, r)
	if !ok {
		return
	}
	handler.writeJSON(w, report)
}

func (handler *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.weekly")
	defer span.End()

	report, ok := handler.report(ctx, w, r)
	if !ok {
		return
	}
	handler.writeJSON(w, report.Weekly)
}

func (handler *Handler) HandlePlateaus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.plateaus")
	defer span.End()

	report, ok := handler.report(ctx, w, r)
	if !ok {
		return
	}
	handler.writeJSON(w, report.Plateaus)
}

func (handler *Handler) HandleHypertrophy(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.hypertrophy")
	defer span.End()

	report, ok := handler.report(ctx, w, r)
	if !ok {
		return
	}
	handler.writeJSON(w, report.Hypertrophy)
}

func (handler *Handler) HandleWeekdays(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.weekdays")
	defer span.End()

	report, ok := handler.report(ctx, w, r)
	if !ok {
		return
	}
	handler.writeJSON(w, report.Weekdays)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.export")
	defer span.End()

	report, ok := handler.report(ctx, w, r)
	if !ok {
		return
	}

	csvBytes, err := WeeklyCSV(report.Weekly)
	if err != nil {
		log.Errorf("failed to render weekly csv: %s", err)
		http.Error(w, "failed to render export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="weekly_report.csv"`)
	pkg.WriteResponseBytes(w, pkg.ContentType.CSV, csvBytes, http.StatusOK)
}

func (handler *Handler) report(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Report, bool) {
	params, err := paramsFromQuery(handler.defaults, r.URL.Query())
	if err != nil {
		log.Tracef("dashboard report, bad params: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	report, err := handler.service.Report(ctx, handler.ownerID, params)
	if err != nil {
		log.Errorf("failed to compute dashboard report: %s", err)
		http.Error(w, "failed to compute report", http.StatusInternalServerError)
		return nil, false
	}

	return report, true
}

func (handler *Handler) writeJSON(w http.ResponseWriter, payload any) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("failed to marshal dashboard response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, payloadJson, http.StatusOK)
}

// paramsFromQuery overlays query params on top of the configured
// defaults, so every dashboard request can tune the pipeline without
// touching server config.
func paramsFromQuery(defaults Params, query url.Values) (Params, error) {
	params := defaults

	intParams := []struct {
		name   string
		target *int
	}{
		{"week_start_day", &params.WeekStartDay},
		{"min_reps", &params.MinRepsForPR},
		{"plateau_weeks", &params.PlateauWeeks},
		{"lookback_weeks", &params.LookbackWeeks},
	}
	for _, p := range intParams {
		if valStr := query.Get(p.name); valStr != "" {
			val, err := strconv.Atoi(valStr)
			if err != nil {
				return Params{}, fmt.Errorf("failed to parse <%s> param", p.name)
			}
			*p.target = val
		}
	}

	if neverPRStr := query.Get("include_never_pr"); neverPRStr != "" {
		neverPR, err := strconv.ParseBool(neverPRStr)
		if err != nil {
			return Params{}, errors.New("failed to parse <include_never_pr> param")
		}
		params.IncludeNeverPR = neverPR
	}

	if err := params.Validate(); err != nil {
		return Params{}, err
	}

	return params, nil
}
