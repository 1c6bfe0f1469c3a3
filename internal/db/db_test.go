package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/types"
)

var summaryColumns = []string{"id", "created_at", "source_name", "content_hash", "mode", "level", "overall", "match_band", "trustworthy"}

func newMockStore(t *testing.T, driver string) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	store, err := NewSQLStore(conn, driver)
	require.NoError(t, err)
	return store, mock
}

func sampleResult() *scoring.Result {
	return &scoring.Result{
		ID:          uuid.New(),
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		SourceName:  "jane.pdf",
		Mode:        types.ModeGeneral,
		Level:       types.LevelMid,
		Trustworthy: true,
		Final: types.FinalScore{
			Overall:   72.5,
			MatchBand: types.BandGood,
			Mode:      types.ModeGeneral,
		},
		Warnings: []string{},
	}
}

func TestRebind(t *testing.T) {
	pg := dialects[DriverPostgres]
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", pg.rebind("SELECT 1 WHERE a = ? AND b = ?"))

	lite := dialects[DriverSQLite]
	assert.Equal(t, "SELECT 1 WHERE a = ?", lite.rebind("SELECT 1 WHERE a = ?"))
}

func TestListOptions_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		opts   ListOptions
		limit  int
		offset int
	}{
		{"defaults", ListOptions{}, DefaultListLimit, 0},
		{"explicit", ListOptions{Limit: 5, Offset: 10}, 5, 10},
		{"capped", ListOptions{Limit: 10_000}, MaxListLimit, 0},
		{"negative", ListOptions{Limit: -1, Offset: -4}, DefaultListLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.limit, tt.opts.limit())
			assert.Equal(t, tt.offset, tt.opts.offset())
		})
	}
}

func TestNewReport(t *testing.T) {
	res := sampleResult()
	r, err := NewReport(res, "abc123")
	require.NoError(t, err)

	assert.Equal(t, res.ID, r.ID)
	assert.Equal(t, "abc123", r.ContentHash)
	assert.Equal(t, 72.5, r.Overall)
	assert.Equal(t, types.BandGood, r.MatchBand)
	assert.True(t, r.Trustworthy)

	decoded, err := r.Decode()
	require.NoError(t, err)
	assert.Equal(t, res.ID, decoded.ID)
	assert.Equal(t, res.Final.Overall, decoded.Final.Overall)

	_, err = NewReport(nil, "")
	assert.Error(t, err)
	_, err = (&Report{}).Decode()
	assert.Error(t, err)
}

func TestSaveReport_Postgres(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	r, err := NewReport(sampleResult(), "hash")
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO reports .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10\)`).
		WithArgs(r.ID.String(), r.CreatedAt, "jane.pdf", "hash", "general", "mid", 72.5, "good", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SaveReport(context.Background(), r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReport_AssignsIDAndTime(t *testing.T) {
	store, mock := newMockStore(t, DriverSQLite)
	mock.ExpectExec("INSERT INTO reports").WillReturnResult(sqlmock.NewResult(0, 1))

	r := &Report{Mode: types.ModeGeneral, Result: []byte(`{}`)}
	require.NoError(t, store.SaveReport(context.Background(), r))
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.False(t, r.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReport_Error(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	mock.ExpectExec("INSERT INTO reports").WillReturnError(errors.New("connection reset"))

	err := store.SaveReport(context.Background(), &Report{ID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save report")
	assert.Contains(t, err.Error(), "connection reset")

	assert.Error(t, store.SaveReport(context.Background(), nil))
}

func TestGetReport(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	id := uuid.New()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(append(append([]string{}, summaryColumns...), "result")).
		AddRow(id.String(), created, "jane.pdf", "hash", "jd_based", "senior", 81.0, "very_good", true, `{"id":"`+id.String()+`"}`)
	mock.ExpectQuery(`SELECT .* FROM reports WHERE id = \$1`).WithArgs(id.String()).WillReturnRows(rows)

	r, err := store.GetReport(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, created, r.CreatedAt)
	assert.Equal(t, types.ModeJD, r.Mode)
	assert.Equal(t, types.LevelSenior, r.Level)
	assert.Equal(t, 81.0, r.Overall)
	assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(r.Result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReport_NotFound(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	id := uuid.New()
	mock.ExpectQuery("SELECT .* FROM reports").WillReturnRows(sqlmock.NewRows(summaryColumns))

	_, err := store.GetReport(context.Background(), id)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), id.String())
}

func TestListReports(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	a, b := uuid.New(), uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(summaryColumns).
		AddRow(a.String(), now, "a.pdf", "h1", "general", "mid", 70.0, "good", true).
		AddRow(b.String(), now.Add(-time.Hour), "b.pdf", "h1", "general", "junior", 45.0, "poor", false)
	mock.ExpectQuery(`SELECT .* FROM reports WHERE content_hash = \$1 ORDER BY created_at DESC, id LIMIT \$2 OFFSET \$3`).
		WithArgs("h1", 10, 0).
		WillReturnRows(rows)

	reports, err := store.ListReports(context.Background(), ListOptions{Limit: 10, ContentHash: "h1"})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, a, reports[0].ID)
	assert.Equal(t, types.BandPoor, reports[1].MatchBand)
	assert.False(t, reports[1].Trustworthy)
	assert.Nil(t, reports[0].Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReports_Empty(t *testing.T) {
	store, mock := newMockStore(t, DriverSQLite)
	mock.ExpectQuery(`SELECT .* FROM reports ORDER BY created_at DESC, id LIMIT \? OFFSET \?`).
		WithArgs(DefaultListLimit, 0).
		WillReturnRows(sqlmock.NewRows(summaryColumns))

	reports, err := store.ListReports(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

func TestDeleteReport(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM reports WHERE id = \$1`).WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.DeleteReport(context.Background(), id))

	mock.ExpectExec("DELETE FROM reports").WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 0))
	err := store.DeleteReport(context.Background(), id)
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(context.Background(), DriverSQLite, "  ")
	assert.Error(t, err)

	_, err = NewSQLStore(nil, "oracle")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestPoolOptionsFromEnv(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "10m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "soon")
	t.Setenv("DB_PING_TIMEOUT", "")

	opts := PoolOptionsFromEnv(DefaultPoolOptions())
	assert.Equal(t, 3, opts.MaxOpenConns)
	assert.Equal(t, 5, opts.MaxIdleConns)
	assert.Equal(t, 10*time.Minute, opts.ConnMaxLifetime)
	assert.Equal(t, 2*time.Minute, opts.ConnMaxIdleTime, "invalid duration is ignored")
	assert.Equal(t, pingTimeout, opts.PingTimeout)
}
