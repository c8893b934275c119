package interview

import (
	"errors"
	"strings"
	"time"

	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/paging"
)

// Badge is a style token plus icon name for rendering
type Badge struct {
	Style string `json:"style"`
	Icon  string `json:"icon"`
}

var (
	levelBadges = map[string]Badge{
		model.LevelL1: {Style: "secondary", Icon: "user-check"},
		model.LevelL2: {Style: "primary", Icon: "code"},
		model.LevelL3: {Style: "success", Icon: "trophy"},
	}
	statusBadges = map[string]Badge{
		model.InterviewScheduled: {Style: "info", Icon: "calendar"},
		model.InterviewCompleted: {Style: "success", Icon: "check-circle"},
		model.InterviewCancelled: {Style: "danger", Icon: "x-circle"},
	}
)

// LevelBadge maps L1/L2/L3; anything else renders like L1
func LevelBadge(level string) Badge {
	if b, ok := levelBadges[level]; ok {
		return b
	}
	return levelBadges[model.LevelL1]
}

// StatusBadge maps Scheduled/Completed/Cancelled; anything else renders like Scheduled
func StatusBadge(status string) Badge {
	if b, ok := statusBadges[status]; ok {
		return b
	}
	return statusBadges[model.InterviewScheduled]
}

// Meeting platforms recognised from an interview link
const (
	PlatformTeams = "teams"
	PlatformMeet  = "meet"
	PlatformZoom  = "zoom"
	PlatformSkype = "skype"
	PlatformOther = "other"
)

var platforms = []struct {
	needles  []string
	platform string
}{
	{[]string{"teams.microsoft.com", "teams.com"}, PlatformTeams},
	{[]string{"meet.google.com", "hangouts.google.com"}, PlatformMeet},
	{[]string{"zoom.us"}, PlatformZoom},
	{[]string{"skype.com"}, PlatformSkype},
}

// DetectPlatform guesses the meeting platform by substring, first match wins
func DetectPlatform(link string) string {
	for _, p := range platforms {
		for _, n := range p.needles {
			if strings.Contains(link, n) {
				return p.platform
			}
		}
	}
	return PlatformOther
}

// Row is an interview decorated for the interviews tab
type Row struct {
	model.Interview
	LevelBadge  Badge  `json:"levelBadge"`
	StatusBadge Badge  `json:"statusBadge"`
	Platform    string `json:"platform,omitempty"`
}

// Decorate attaches badges and the detected platform
func Decorate(iv model.Interview) Row {
	r := Row{
		Interview:   iv,
		LevelBadge:  LevelBadge(iv.InterviewLevel),
		StatusBadge: StatusBadge(iv.Status),
	}
	if iv.InterviewLink != "" {
		r.Platform = DetectPlatform(iv.InterviewLink)
	}
	return r
}

// Paginate returns the requested page of the unfiltered interview list
func Paginate(ivs []model.Interview, page int) paging.Page[Row] {
	rows := make([]Row, len(ivs))
	for i, iv := range ivs {
		rows[i] = Decorate(iv)
	}
	return paging.Slice(rows, page, paging.PageSize)
}

var (
	ErrMissingDate        = errors.New("interview date is required")
	ErrMissingLevel       = errors.New("interview level is required")
	ErrMissingInterviewer = errors.New("interviewer is required")
	ErrPastDate           = errors.New("interview cannot be scheduled in the past")
	ErrInvalidLevel       = errors.New("interview level must be L1, L2 or L3")
	ErrInvalidStatus      = errors.New("interview status must be Scheduled, Completed or Cancelled")
)

// Validate checks required fields and that the date is not in the past.
// An empty status is defaulted to Scheduled.
func Validate(iv *model.Interview, now time.Time) error {
	if iv.ScheduledDate.IsZero() {
		return ErrMissingDate
	}
	if strings.TrimSpace(iv.InterviewLevel) == "" {
		return ErrMissingLevel
	}
	if strings.TrimSpace(iv.Interviewer) == "" {
		return ErrMissingInterviewer
	}
	if _, ok := levelBadges[iv.InterviewLevel]; !ok {
		return ErrInvalidLevel
	}
	if iv.Status == "" {
		iv.Status = model.InterviewScheduled
	}
	if _, ok := statusBadges[iv.Status]; !ok {
		return ErrInvalidStatus
	}
	if iv.ScheduledDate.Before(now) {
		return ErrPastDate
	}
	return nil
}

// ValidateUpdate is Validate for an edit: the past-date rule only applies
// when the interview is being rescheduled
func ValidateUpdate(iv *model.Interview, previous model.Interview, now time.Time) error {
	if iv.ScheduledDate.Equal(previous.ScheduledDate) {
		return Validate(iv, time.Time{})
	}
	return Validate(iv, now)
}
