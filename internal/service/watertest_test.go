package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/DukeRupert/poolcheck/internal/compliance"
	"github.com/DukeRupert/poolcheck/internal/domain"
	"github.com/DukeRupert/poolcheck/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

var (
	unitColumns = []string{
		"id", "company_id", "property_id", "name", "unit_type", "water_type",
		"volume_litres", "created_at", "updated_at", "property_name",
	}
	waterTestColumns = []string{
		"id", "company_id", "unit_id", "tested_at",
		"ph", "chlorine", "bromine", "salt", "alkalinity", "calcium", "cyanuric", "turbidity", "temperature",
		"overall", "all_parameters_ok", "violations", "results", "notes", "created_at",
	}
	fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWaterTestService(t *testing.T) (*waterTestService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &waterTestService{
		queries: repository.New(db),
		logger:  newTestLogger(),
		now:     func() time.Time { return fixedNow },
	}, mock
}

func unitRow(unitID, companyID uuid.UUID, unitType, waterType string) *sqlmock.Rows {
	return sqlmock.NewRows(unitColumns).AddRow(
		unitID.String(), companyID.String(), uuid.New().String(), "Main Pool",
		unitType, waterType, 120000.0, fixedNow, fixedNow, "Seaside Villas",
	)
}

func expectUnit(mock sqlmock.Sqlmock, unitID, companyID uuid.UUID, unitType, waterType string) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM units u")).
		WithArgs(unitID, companyID).
		WillReturnRows(unitRow(unitID, companyID, unitType, waterType))
}

func resultsJSON(t *testing.T, results map[string]compliance.Result) []byte {
	t.Helper()
	data, err := json.Marshal(results)
	require.NoError(t, err)
	return data
}

// =============================================================================
// Record Tests
// =============================================================================

func TestWaterTestService_Record_PersistsOverallAsAllParametersOK(t *testing.T) {
	tests := []struct {
		name           string
		unitType       string
		waterType      string
		readings       compliance.Params
		wantOverall    string
		wantOK         bool
		wantViolations []string
	}{
		{
			name:           "violation clears the flag",
			unitType:       "main_pool",
			waterType:      "freshwater",
			readings:       compliance.Params{PH: compliance.Float(6.9), Chlorine: compliance.Float(2.0)},
			wantOverall:    "violation",
			wantOK:         false,
			wantViolations: []string{"ph_low"},
		},
		{
			name:           "compliant sets the flag",
			unitType:       "main_pool",
			waterType:      "saltwater",
			readings:       compliance.Params{PH: compliance.Float(7.4), Chlorine: compliance.Float(2.0), Salt: compliance.Float(3500)},
			wantOverall:    "compliant",
			wantOK:         true,
			wantViolations: []string{},
		},
		{
			name:           "bromine unit ignores chlorine reading",
			unitType:       "main_spa",
			waterType:      "bromine",
			readings:       compliance.Params{Chlorine: compliance.Float(0.1), Bromine: compliance.Float(9.0)},
			wantOverall:    "violation",
			wantOK:         false,
			wantViolations: []string{"bromine_high"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newTestWaterTestService(t)
			companyID, unitID, testID := uuid.New(), uuid.New(), uuid.New()

			expectUnit(mock, unitID, companyID, tt.unitType, tt.waterType)

			eval := compliance.Evaluate(tt.readings, tt.unitType, tt.waterType)
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO water_tests")).
				WithArgs(
					companyID, unitID, fixedNow,
					domain.ToNullFloat(tt.readings.PH),
					domain.ToNullFloat(tt.readings.Chlorine),
					domain.ToNullFloat(tt.readings.Bromine),
					domain.ToNullFloat(tt.readings.Salt),
					domain.ToNullFloat(tt.readings.Alkalinity),
					domain.ToNullFloat(tt.readings.Calcium),
					domain.ToNullFloat(tt.readings.Cyanuric),
					domain.ToNullFloat(tt.readings.Turbidity),
					domain.ToNullFloat(tt.readings.Temperature),
					tt.wantOverall,
					tt.wantOK,
					pq.Array(tt.wantViolations),
					sqlmock.AnyArg(),
					nil,
				).
				WillReturnRows(sqlmock.NewRows(waterTestColumns).AddRow(
					testID.String(), companyID.String(), unitID.String(), fixedNow,
					nullable(tt.readings.PH), nullable(tt.readings.Chlorine), nullable(tt.readings.Bromine),
					nullable(tt.readings.Salt), nil, nil, nil, nil, nil,
					tt.wantOverall, tt.wantOK, pqArrayLiteral(tt.wantViolations),
					resultsJSON(t, eval.Results), nil, fixedNow,
				))

			got, err := svc.Record(context.Background(), domain.RecordWaterTestParams{
				CompanyID: companyID,
				UnitID:    unitID,
				Readings:  tt.readings,
			})
			require.NoError(t, err)

			assert.Equal(t, testID, got.ID)
			assert.Equal(t, compliance.Status(tt.wantOverall), got.Overall)
			assert.Equal(t, tt.wantOK, got.AllParametersOK)
			assert.Len(t, got.Violations, len(tt.wantViolations))
			assert.Equal(t, len(eval.Results), len(got.Results))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWaterTestService_Record_ResponseComesFromEvaluation(t *testing.T) {
	svc, mock := newTestWaterTestService(t)
	companyID, unitID, testID := uuid.New(), uuid.New(), uuid.New()
	readings := compliance.Params{PH: compliance.Float(8.1), Chlorine: compliance.Float(0.2)}
	eval := compliance.Evaluate(readings, "main_pool", "freshwater")

	expectUnit(mock, unitID, companyID, "main_pool", "freshwater")

	// Once the insert returns, the test is stored. A results column the
	// service cannot read back must not turn that into an error.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO water_tests")).
		WillReturnRows(sqlmock.NewRows(waterTestColumns).AddRow(
			testID.String(), companyID.String(), unitID.String(), fixedNow,
			8.1, 0.2, nil, nil, nil, nil, nil, nil, nil,
			"violation", false, "{}",
			[]byte("not json"), nil, fixedNow,
		))

	got, err := svc.Record(context.Background(), domain.RecordWaterTestParams{
		CompanyID: companyID,
		UnitID:    unitID,
		Readings:  readings,
	})
	require.NoError(t, err)

	assert.Equal(t, testID, got.ID)
	assert.Equal(t, eval.Results, got.Results)
	assert.Equal(t, []compliance.ViolationKey{compliance.ChlorineLow, compliance.PHHigh}, got.Violations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaterTestService_GetByID_UnreadableResultsIsInternal(t *testing.T) {
	svc, mock := newTestWaterTestService(t)
	companyID, testID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM water_tests")).
		WillReturnRows(sqlmock.NewRows(waterTestColumns).AddRow(
			testID.String(), companyID.String(), uuid.New().String(), fixedNow,
			7.4, nil, nil, nil, nil, nil, nil, nil, nil,
			"compliant", true, "{}",
			[]byte("not json"), nil, fixedNow,
		))

	_, err := svc.GetByID(context.Background(), testID, companyID)
	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}

func TestWaterTestService_GetByID_ResultsCarryViolationKeys(t *testing.T) {
	svc, mock := newTestWaterTestService(t)
	companyID, testID := uuid.New(), uuid.New()
	eval := compliance.Evaluate(compliance.Params{PH: compliance.Float(6.8)}, "main_pool", "chlorine")

	mock.ExpectQuery(regexp.QuoteMeta("FROM water_tests")).
		WillReturnRows(sqlmock.NewRows(waterTestColumns).AddRow(
			testID.String(), companyID.String(), uuid.New().String(), fixedNow,
			6.8, nil, nil, nil, nil, nil, nil, nil, nil,
			"violation", false, "{ph_low}",
			resultsJSON(t, eval.Results), nil, fixedNow,
		))

	got, err := svc.GetByID(context.Background(), testID, companyID)
	require.NoError(t, err)
	assert.Equal(t, compliance.PHLow, got.Results[compliance.ParamPH].ViolationKey())
}

func TestWaterTestService_Record_UnitNotFound(t *testing.T) {
	svc, mock := newTestWaterTestService(t)
	companyID, unitID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM units u")).
		WithArgs(unitID, companyID).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Record(context.Background(), domain.RecordWaterTestParams{
		CompanyID: companyID,
		UnitID:    unitID,
		Readings:  compliance.Params{PH: compliance.Float(7.4)},
	})

	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaterTestService_Record_DatabaseErrorIsInternal(t *testing.T) {
	svc, mock := newTestWaterTestService(t)
	companyID, unitID := uuid.New(), uuid.New()

	expectUnit(mock, unitID, companyID, "villa_pool", "freshwater")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO water_tests")).
		WillReturnError(errors.New("connection reset"))

	_, err := svc.Record(context.Background(), domain.RecordWaterTestParams{
		CompanyID: companyID,
		UnitID:    unitID,
		Readings:  compliance.Params{PH: compliance.Float(7.4)},
	})

	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	assert.NotContains(t, domain.ErrorMessage(err), "connection reset")
}

func TestWaterTestService_Record_Validation(t *testing.T) {
	long := make([]byte, maxNotesLength+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name   string
		params domain.RecordWaterTestParams
		want   string
	}{
		{
			name:   "missing unit",
			params: domain.RecordWaterTestParams{Readings: compliance.Params{PH: compliance.Float(7.4)}},
			want:   "unit is required",
		},
		{
			name:   "no readings",
			params: domain.RecordWaterTestParams{UnitID: uuid.New()},
			want:   "at least one reading is required",
		},
		{
			name: "notes too long",
			params: domain.RecordWaterTestParams{
				UnitID:   uuid.New(),
				Readings: compliance.Params{Temperature: compliance.Float(28)},
				Notes:    string(long),
			},
			want: "notes must be 2000 characters or less",
		},
		{
			name: "tested in the future",
			params: domain.RecordWaterTestParams{
				UnitID:   uuid.New(),
				Readings: compliance.Params{PH: compliance.Float(7.4)},
				TestedAt: fixedNow.Add(2 * time.Hour),
			},
			want: "tested_at cannot be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newTestWaterTestService(t)

			_, err := svc.Record(context.Background(), tt.params)

			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			assert.Equal(t, tt.want, domain.ErrorMessage(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// =============================================================================
// GetByID / ListByUnit Tests
// =============================================================================

func TestWaterTestService_GetByID(t *testing.T) {
	svc, mock := newTestWaterTestService(t)
	companyID, unitID, testID := uuid.New(), uuid.New(), uuid.New()
	eval := compliance.Evaluate(compliance.Params{Turbidity: compliance.Float(1.5)}, "kids_pool", "freshwater")

	mock.ExpectQuery(regexp.QuoteMeta("FROM water_tests")).
		WithArgs(testID, companyID).
		WillReturnRows(sqlmock.NewRows(waterTestColumns).AddRow(
			testID.String(), companyID.String(), unitID.String(), fixedNow,
			nil, nil, nil, nil, nil, nil, nil, 1.5, nil,
			"violation", false, "{turbidity_high}", resultsJSON(t, eval.Results), "cloudy after storm", fixedNow,
		))

	got, err := svc.GetByID(context.Background(), testID, companyID)
	require.NoError(t, err)

	assert.Equal(t, unitID, got.UnitID)
	require.NotNil(t, got.Readings.Turbidity)
	assert.Equal(t, 1.5, *got.Readings.Turbidity)
	assert.Nil(t, got.Readings.PH)
	assert.Equal(t, []compliance.ViolationKey{compliance.TurbidityHigh}, got.Violations)
	assert.Equal(t, compliance.StatusViolation, got.Results[compliance.ParamTurbidity].Status)
	assert.Equal(t, "Clarifier (Aluminum Sulfate)", got.Results[compliance.ParamTurbidity].Chemical)
	assert.Equal(t, "cloudy after storm", got.Notes)
	assert.Contains(t, got.Remediations(), compliance.TurbidityHigh)
}

func TestWaterTestService_GetByID_NotFound(t *testing.T) {
	svc, mock := newTestWaterTestService(t)
	id, companyID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM water_tests")).
		WithArgs(id, companyID).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetByID(context.Background(), id, companyID)

	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestWaterTestService_ListByUnit(t *testing.T) {
	tests := []struct {
		name      string
		limit     int32
		offset    int32
		wantLimit int32
		wantOff   int32
	}{
		{"defaults", 0, 0, DefaultListLimit, 0},
		{"capped", 500, 10, MaxListLimit, 10},
		{"negative offset", 5, -3, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newTestWaterTestService(t)
			companyID, unitID := uuid.New(), uuid.New()

			expectUnit(mock, unitID, companyID, "main_pool", "freshwater")
			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM water_tests")).
				WithArgs(unitID, companyID).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))
			mock.ExpectQuery(regexp.QuoteMeta("ORDER BY tested_at DESC")).
				WithArgs(unitID, companyID, tt.wantLimit, tt.wantOff).
				WillReturnRows(sqlmock.NewRows(waterTestColumns).AddRow(
					uuid.New().String(), companyID.String(), unitID.String(), fixedNow,
					7.4, 2.0, nil, nil, nil, nil, nil, nil, nil,
					"compliant", true, "{}", nil, nil, fixedNow,
				))

			got, err := svc.ListByUnit(context.Background(), domain.ListWaterTestsParams{
				CompanyID: companyID,
				UnitID:    unitID,
				Limit:     tt.limit,
				Offset:    tt.offset,
			})
			require.NoError(t, err)

			assert.Equal(t, int64(42), got.Total)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOff, got.Offset)
			require.Len(t, got.WaterTests, 1)
			assert.True(t, got.WaterTests[0].AllParametersOK)
			assert.Empty(t, got.WaterTests[0].Violations)
			assert.Empty(t, got.WaterTests[0].Results)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWaterTestService_ListByUnit_UnitNotFound(t *testing.T) {
	svc, mock := newTestWaterTestService(t)
	companyID, unitID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM units u")).
		WithArgs(unitID, companyID).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.ListByUnit(context.Background(), domain.ListWaterTestsParams{CompanyID: companyID, UnitID: unitID})

	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =============================================================================
// Evaluate Tests
// =============================================================================

func TestWaterTestService_Evaluate_DoesNotTouchDatabase(t *testing.T) {
	svc, mock := newTestWaterTestService(t)

	got := svc.Evaluate(domain.EvaluateParams{
		UnitType:  "main_pool",
		WaterType: "freshwater",
		Readings:  compliance.Params{PH: compliance.Float(6.9)},
	})

	assert.Equal(t, compliance.StatusViolation, got.Overall)
	assert.Equal(t, compliance.RiskMedium, got.RiskCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// nullable converts an optional reading to a driver value for mock rows.
func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func pqArrayLiteral(values []string) string {
	v, _ := pq.Array(values).Value()
	if s, ok := v.(string); ok {
		return s
	}
	return "{}"
}
