package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/candidate-grid/internal/model"
)

// stubRows yields one submission number per row, then reports err
type stubRows struct {
	pgx.Rows
	values []int
	pos    int
	err    error
}

func (r *stubRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	*dest[0].(*int) = r.values[r.pos-1]
	return nil
}

func (r *stubRows) Err() error { return r.err }

func scanNumber(row pgx.Row, s *model.Submission) error {
	return row.Scan(&s.SubmissionNumber)
}

func TestScanRows(t *testing.T) {
	subs, err := scanRows(&stubRows{values: []int{3, 1, 4}}, "submission", scanNumber)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, 4, subs[2].SubmissionNumber)
}

func TestScanRowsReportsReadError(t *testing.T) {
	dropped := errors.New("connection reset by peer")
	rows := &stubRows{values: []int{3, 1}, err: dropped}

	subs, err := scanRows(rows, "submission", scanNumber)
	assert.Nil(t, subs)
	assert.ErrorIs(t, err, dropped)
	assert.ErrorContains(t, err, "reading submission rows")
}

func TestScanRowsStopsOnScanError(t *testing.T) {
	bad := errors.New("cannot scan NULL into int")
	_, err := scanRows(&stubRows{values: []int{1}}, "submission", func(pgx.Row, *model.Submission) error {
		return bad
	})
	assert.ErrorIs(t, err, bad)
	assert.ErrorContains(t, err, "scanning submission")
}

func TestNullTime(t *testing.T) {
	assert.Nil(t, nullTime(time.Time{}))
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	require.NotNil(t, nullTime(now))
	assert.Equal(t, now, *nullTime(now))
}
