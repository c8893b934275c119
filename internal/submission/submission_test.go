package submission

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/candidate-grid/internal/model"
)

var fixedNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sub(date time.Time, n int) model.Submission {
	return model.Submission{ID: uuid.New(), SubmissionDate: date, SubmissionNumber: n}
}

func TestWindowThisMonth(t *testing.T) {
	r := Window(ThisMonth, fixedNow, time.Time{}, time.Time{})
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC), r.End)
}

func TestWindowUnknownTokenIsThisMonth(t *testing.T) {
	assert.Equal(t,
		Window(ThisMonth, fixedNow, time.Time{}, time.Time{}),
		Window("bogus", fixedNow, time.Time{}, time.Time{}),
	)
}

func TestWindowLastMonth(t *testing.T) {
	r := Window(LastMonth, fixedNow, time.Time{}, time.Time{})
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), r.End)

	// January wraps to the previous December
	jan := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	r = Window(LastMonth, jan, time.Time{}, time.Time{})
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), r.End)
}

func TestWindowLastWeek(t *testing.T) {
	r := Window(LastWeek, fixedNow, time.Time{}, time.Time{})
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), r.Start)
	assert.Equal(t, fixedNow, r.End)
}

func TestWindowLastSixMonths(t *testing.T) {
	r := Window(LastSixMons, fixedNow, time.Time{}, time.Time{})
	assert.Equal(t, time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, fixedNow, r.End)
}

func TestWindowDateRangeUsedAsIs(t *testing.T) {
	from := time.Date(2024, 1, 5, 13, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC)
	r := Window(DateRange, fixedNow, from, to)
	assert.Equal(t, from, r.Start)
	assert.Equal(t, to, r.End)
}

func TestFilterInclusiveBoundary(t *testing.T) {
	target := day(2024, 2, 10)
	subs := []model.Submission{sub(day(2024, 2, 9), 1), sub(target, 2), sub(day(2024, 2, 11), 3)}

	got := Filter(subs, Window(DateRange, fixedNow, target, target))
	require.Len(t, got, 1)
	assert.Equal(t, target, got[0].SubmissionDate)
}

func TestFilterInvalidRangeMatchesNothing(t *testing.T) {
	subs := []model.Submission{sub(day(2024, 3, 2), 1)}
	assert.Empty(t, Filter(subs, Window(DateRange, fixedNow, time.Time{}, day(2024, 3, 31))))
	assert.Empty(t, Filter(subs, Window(DateRange, fixedNow, day(2024, 3, 1), time.Time{})))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.Submission{sub(fixedNow, 3), sub(fixedNow, 0), sub(fixedNow, 4)})
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 7, s.TotalNumber)
}

func TestBuildViewPaginatesFilteredList(t *testing.T) {
	var subs []model.Submission
	for i := 0; i < 23; i++ {
		subs = append(subs, sub(day(2024, 3, 1).Add(time.Duration(i)*time.Hour), 1))
	}
	// outside this-month, must not count toward pages
	for i := 0; i < 5; i++ {
		subs = append(subs, sub(day(2024, 1, 2), 1))
	}

	v := BuildView(subs, ThisMonth, time.Time{}, time.Time{}, 1, fixedNow)
	assert.Len(t, v.Page.Items, 10)
	assert.Equal(t, 3, v.Page.TotalPages)
	assert.Equal(t, 23, v.Summary.Count)
	assert.Equal(t, 23, v.Summary.TotalNumber)

	v = BuildView(subs, ThisMonth, time.Time{}, time.Time{}, 3, fixedNow)
	assert.Len(t, v.Page.Items, 3)
}

func TestBuildViewEmpty(t *testing.T) {
	v := BuildView(nil, LastWeek, time.Time{}, time.Time{}, 1, fixedNow)
	assert.Equal(t, 0, v.Page.TotalPages)
	assert.Equal(t, 0, v.Summary.Count)
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate(fixedNow, fixedNow))
	// later today is still today
	assert.NoError(t, ValidateDate(time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC), fixedNow))
	assert.ErrorIs(t, ValidateDate(day(2024, 3, 16), fixedNow), ErrFutureDate)
	assert.ErrorIs(t, ValidateDate(time.Time{}, fixedNow), ErrMissingDate)
}

func TestValidateNumber(t *testing.T) {
	assert.NoError(t, ValidateNumber(0))
	assert.ErrorIs(t, ValidateNumber(-1), ErrNegativeNumber)
	assert.ErrorIs(t, Validate(sub(fixedNow, -2), fixedNow), ErrNegativeNumber)
}
