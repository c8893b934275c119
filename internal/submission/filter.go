package submission

import (
	"errors"
	"time"

	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/paging"
)

var (
	ErrFutureDate     = errors.New("submission date cannot be in the future")
	ErrNegativeNumber = errors.New("submission number cannot be negative")
	ErrMissingDate    = errors.New("submission date is required")
)

// Filter returns the submissions whose date falls inside r, in input order
func Filter(subs []model.Submission, r Range) []model.Submission {
	out := make([]model.Submission, 0, len(subs))
	for _, s := range subs {
		if r.Contains(s.SubmissionDate) {
			out = append(out, s)
		}
	}
	return out
}

// Summary is the aggregate shown above the submissions table
type Summary struct {
	Count       int `json:"count"`
	TotalNumber int `json:"totalNumber"`
}

// Summarize counts subs and sums their submission numbers
func Summarize(subs []model.Submission) Summary {
	s := Summary{Count: len(subs)}
	for _, sub := range subs {
		s.TotalNumber += sub.SubmissionNumber
	}
	return s
}

// View is the filtered, paged submissions tab
type View struct {
	Filter  string                        `json:"filter"`
	Window  Range                         `json:"window"`
	Summary Summary                       `json:"summary"`
	Page    paging.Page[model.Submission] `json:"page"`
}

// BuildView filters subs by the token's window and returns the requested page
// of the filtered list
func BuildView(subs []model.Submission, token string, from, to time.Time, page int, now time.Time) View {
	if !KnownToken(token) {
		token = ThisMonth
	}
	r := Window(token, now, from, to)
	filtered := Filter(subs, r)
	return View{
		Filter:  token,
		Window:  r,
		Summary: Summarize(filtered),
		Page:    paging.Slice(filtered, page, paging.PageSize),
	}
}

// ValidateDate rejects dates after the end of the current day
func ValidateDate(date, now time.Time) error {
	if date.IsZero() {
		return ErrMissingDate
	}
	y, m, d := now.Date()
	endOfToday := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	if date.After(endOfToday) {
		return ErrFutureDate
	}
	return nil
}

// ValidateNumber rejects negative submission counts
func ValidateNumber(n int) error {
	if n < 0 {
		return ErrNegativeNumber
	}
	return nil
}

// Validate runs every input check for a create or edit
func Validate(s model.Submission, now time.Time) error {
	if err := ValidateDate(s.SubmissionDate, now); err != nil {
		return err
	}
	return ValidateNumber(s.SubmissionNumber)
}
