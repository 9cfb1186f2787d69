package routecasepriority

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rehab-workers/internal/common/database"
	"rehab-workers/internal/common/logger"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	h := NewHandler(LoadConfig(), db, cache, logger.NewZapAdapter(zaptest.NewLogger(t)))
	return h, mock, mr
}

func expectReadiness(mock sqlmock.Sqlmock, level string) {
	mock.ExpectQuery(`FROM work_readiness_assessments`).
		WillReturnRows(sqlmock.NewRows([]string{"readiness_level"}).AddRow(level))
}

func TestExecute_SeverityTable(t *testing.T) {
	tests := []struct {
		severity string
		priority string
		tier     string
	}{
		{"near_miss", "low", "triage_nurse"},
		{"first_aid", "medium", "triage_nurse"},
		{"medical_treatment", "high", "physiotherapist"},
		{"lost_time", "high", "rehab_specialist"},
		{"fatality", "urgent", "occupational_physician"},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			h, mock, _ := newTestHandler(t)
			expectReadiness(mock, "fit")

			output, err := h.Execute(context.Background(), &Input{
				IncidentID: "inc-1",
				WorkerID:   "worker-1",
				Severity:   tt.severity,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.priority, output.CasePriority)
			assert.Equal(t, tt.tier, output.ClinicianTier)
			assert.False(t, output.Escalated)
		})
	}
}

func TestExecute_NotFitEscalatesPriorityAndTier(t *testing.T) {
	h, mock, _ := newTestHandler(t)
	expectReadiness(mock, "not_fit")

	output, err := h.Execute(context.Background(), &Input{
		IncidentID: "inc-2",
		WorkerID:   "worker-2",
		Severity:   "first_aid",
	})

	require.NoError(t, err)
	assert.Equal(t, "high", output.CasePriority)
	assert.Equal(t, "physiotherapist", output.ClinicianTier)
	assert.Equal(t, "not_fit", output.ReadinessLevel)
	assert.True(t, output.Escalated)
}

func TestExecute_NotFitCannotExceedUrgent(t *testing.T) {
	h, mock, _ := newTestHandler(t)
	expectReadiness(mock, "not_fit")

	output, err := h.Execute(context.Background(), &Input{
		IncidentID: "inc-3",
		WorkerID:   "worker-3",
		Severity:   "fatality",
	})

	require.NoError(t, err)
	assert.Equal(t, "urgent", output.CasePriority)
	assert.Equal(t, "occupational_physician", output.ClinicianTier)
	assert.False(t, output.Escalated)
}

func TestExecute_ReadinessLookupFailureRoutesOnSeverityAlone(t *testing.T) {
	h, mock, _ := newTestHandler(t)
	mock.ExpectQuery(`FROM work_readiness_assessments`).
		WillReturnError(errors.New("connection refused"))

	output, err := h.Execute(context.Background(), &Input{
		IncidentID: "inc-4",
		WorkerID:   "worker-4",
		Severity:   "medical_treatment",
	})

	require.NoError(t, err)
	assert.Equal(t, "high", output.CasePriority)
	assert.Empty(t, output.ReadinessLevel)
	assert.False(t, output.Escalated)
}

func TestExecute_ReadinessServedFromCache(t *testing.T) {
	h, mock, mr := newTestHandler(t)
	require.NoError(t, mr.Set("readiness:latest:worker-5", "not_fit"))

	output, err := h.Execute(context.Background(), &Input{
		IncidentID: "inc-5",
		WorkerID:   "worker-5",
		Severity:   "near_miss",
	})

	require.NoError(t, err)
	assert.Equal(t, "medium", output.CasePriority)
	assert.True(t, output.Escalated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_UnknownReadinessTreatedAsFit(t *testing.T) {
	h, mock, _ := newTestHandler(t)
	expectReadiness(mock, "sideways")

	output, err := h.Execute(context.Background(), &Input{
		IncidentID: "inc-6",
		WorkerID:   "worker-6",
		Severity:   "near_miss",
	})

	require.NoError(t, err)
	assert.Equal(t, "low", output.CasePriority)
	assert.Equal(t, "fit", output.ReadinessLevel)
}

func TestExecute_UnknownSeverity(t *testing.T) {
	h, _, _ := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{
		IncidentID: "inc-7",
		WorkerID:   "worker-7",
		Severity:   "bad",
	})

	assert.Error(t, err)
}
