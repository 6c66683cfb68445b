package analytics_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdvries/liftlog/internal/analytics"
)

func testReport() *analytics.Report {
	weeks := 4.0
	score := 75.0
	return &analytics.Report{
		Weekly: []analytics.PRBucket{
			{
				WeeklyBucket: analytics.WeeklyBucket{
					MuscleGroup: "Chest",
					Exercise:    "Bench Press",
					WeekStart:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
					MaxWeight:   100,
					SetCount:    3,
				},
				PREligible: true,
				IsNewPR:    true,
			},
		},
		Plateaus: []analytics.PlateauStatus{
			{MuscleGroup: "Legs", Exercise: "Squat", WeeksSincePR: &weeks, IsPlateau: true},
		},
		Hypertrophy: []analytics.HypertrophyScore{
			{MuscleGroup: "Chest", WeekStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), Score: &score},
		},
		Weekdays: make([]analytics.WeekdaySplit, 7),
	}
}

func TestHandler_HandleReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockreportsService(ctrl)
	ownerID := uuid.New()
	h := analytics.NewHandler(serviceMock, analytics.DefaultParams(), ownerID)

	serviceMock.EXPECT().
		Report(gomock.Any(), ownerID, analytics.DefaultParams()).
		Return(testReport(), nil)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/dashboard/report", nil)
	require.NoError(t, err)

	h.HandleReport(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report analytics.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Weekly, 1)
	assert.Equal(t, "Bench Press", report.Weekly[0].Exercise)
	require.Len(t, report.Plateaus, 1)
	require.Len(t, report.Weekdays, 7)
}

func TestHandler_HandlePlateaus_ParamOverrides(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockreportsService(ctrl)
	ownerID := uuid.New()
	h := analytics.NewHandler(serviceMock, analytics.DefaultParams(), ownerID)

	expectedParams := analytics.DefaultParams()
	expectedParams.PlateauWeeks = 5
	expectedParams.IncludeNeverPR = false

	serviceMock.EXPECT().
		Report(gomock.Any(), ownerID, expectedParams).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, params analytics.Params) (*analytics.Report, error) {
			assert.Equal(t, 5, params.PlateauWeeks)
			assert.False(t, params.IncludeNeverPR)
			return testReport(), nil
		})

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/dashboard/plateaus?plateau_weeks=5&include_never_pr=false", nil)
	require.NoError(t, err)

	h.HandlePlateaus(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var plateaus []analytics.PlateauStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plateaus))
	require.Len(t, plateaus, 1)
	assert.Equal(t, "Squat", plateaus[0].Exercise)
}

func TestHandler_BadParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockreportsService(ctrl)
	h := analytics.NewHandler(serviceMock, analytics.DefaultParams(), uuid.New())

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/dashboard/weekly?min_reps=lots", nil)
	require.NoError(t, err)
	h.HandleWeekly(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req, err = http.NewRequest("GET", "/dashboard/weekly?plateau_weeks=0", nil)
	require.NoError(t, err)
	h.HandleWeekly(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleExport(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockreportsService(ctrl)
	ownerID := uuid.New()
	h := analytics.NewHandler(serviceMock, analytics.DefaultParams(), ownerID)

	serviceMock.EXPECT().
		Report(gomock.Any(), ownerID, analytics.DefaultParams()).
		Return(testReport(), nil)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/dashboard/export", nil)
	require.NoError(t, err)

	h.HandleExport(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "weekly_report.csv")
	assert.Contains(t, rec.Body.String(), "muscle_group,exercise_name,week_start")
	assert.Contains(t, rec.Body.String(), "Bench Press")
}
