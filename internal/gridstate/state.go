// Package gridstate holds the per-user view state of the candidate grid:
// which candidate is open, which tab is active, the submission filter and
// both pagers, and which editor or dialog is showing. Each concern is a
// single explicit mode rather than a set of independent flags.
package gridstate

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/staffhub/candidate-grid/internal/paging"
	"github.com/staffhub/candidate-grid/internal/submission"
)

// Tab identifies a section of the candidate panel
type Tab string

const (
	TabProfile          Tab = "profile"
	TabPipeline         Tab = "pipeline"
	TabSubmissions      Tab = "submissions"
	TabInterviews       Tab = "interviews"
	TabNotes            Tab = "notes"
	TabAttachments      Tab = "attachments"
	TabOffers           Tab = "offers"
	TabBackgroundChecks Tab = "background-checks"
)

func (t Tab) Valid() bool {
	switch t {
	case TabProfile, TabPipeline, TabSubmissions, TabInterviews,
		TabNotes, TabAttachments, TabOffers, TabBackgroundChecks:
		return true
	}
	return false
}

// EditorMode is the mode of a create/edit form
type EditorMode string

const (
	EditorClosed  EditorMode = "closed"
	EditorAdding  EditorMode = "adding"
	EditorEditing EditorMode = "editing"
)

// Editor is Closed, Adding, or Editing(TargetID)
type Editor struct {
	Mode     EditorMode `json:"mode"`
	TargetID uuid.UUID  `json:"targetId,omitempty"`
}

func Closed() Editor                  { return Editor{Mode: EditorClosed} }
func Adding() Editor                  { return Editor{Mode: EditorAdding} }
func Editing(id uuid.UUID) Editor     { return Editor{Mode: EditorEditing, TargetID: id} }
func (e Editor) IsOpen() bool         { return e.Mode == EditorAdding || e.Mode == EditorEditing }
func (e Editor) EditingID() uuid.UUID { return e.TargetID }

// Dialog is None or Confirm(Action, TargetID)
type Dialog struct {
	Action   string    `json:"action,omitempty"`
	TargetID uuid.UUID `json:"targetId,omitempty"`
}

func (d Dialog) Open() bool { return d.Action != "" }

// SubmissionFilter is the selected filter token plus an explicit range
type SubmissionFilter struct {
	Token string    `json:"token"`
	From  time.Time `json:"from,omitempty"`
	To    time.Time `json:"to,omitempty"`
}

// State is everything the panel needs to re-render after a reload
type State struct {
	CandidateID      uuid.UUID        `json:"candidateId"`
	Tab              Tab              `json:"tab"`
	SubmissionFilter SubmissionFilter `json:"submissionFilter"`
	SubmissionPage   int              `json:"submissionPage"`
	InterviewPage    int              `json:"interviewPage"`
	NoteEditor       Editor           `json:"noteEditor"`
	Dialog           Dialog           `json:"dialog"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

var (
	ErrInvalidTab    = errors.New("invalid tab")
	ErrInvalidFilter = errors.New("invalid submission filter")
	ErrInvalidPage   = errors.New("page must be between 1 and 1000000")
	ErrInvalidEditor = errors.New("invalid editor mode")
)

// New returns the initial state: nothing selected, profile tab, this month
func New() State {
	return State{
		Tab:              TabProfile,
		SubmissionFilter: SubmissionFilter{Token: submission.ThisMonth},
		SubmissionPage:   1,
		InterviewPage:    1,
		NoteEditor:       Closed(),
	}
}

// SelectCandidate opens a candidate. Both pagers restart at page 1 and any
// open editor or dialog is dismissed; the active tab is kept.
func (s *State) SelectCandidate(id uuid.UUID) {
	s.CandidateID = id
	s.InterviewPage = 1
	s.SubmissionPage = 1
	s.NoteEditor = Closed()
	s.Dialog = Dialog{}
}

// SetTab switches the active tab
func (s *State) SetTab(t Tab) error {
	if !t.Valid() {
		return ErrInvalidTab
	}
	s.Tab = t
	return nil
}

// SetSubmissionFilter changes the filter and restarts the submission pager
func (s *State) SetSubmissionFilter(f SubmissionFilter) error {
	if !submission.KnownToken(f.Token) {
		return ErrInvalidFilter
	}
	if f.Token != submission.DateRange {
		f.From, f.To = time.Time{}, time.Time{}
	}
	s.SubmissionFilter = f
	s.SubmissionPage = 1
	return nil
}

func (s *State) SetSubmissionPage(n int) error {
	if n < 1 || n > paging.MaxPage {
		return ErrInvalidPage
	}
	s.SubmissionPage = n
	return nil
}

func (s *State) SetInterviewPage(n int) error {
	if n < 1 || n > paging.MaxPage {
		return ErrInvalidPage
	}
	s.InterviewPage = n
	return nil
}

// SetNoteEditor opens or closes the note form
func (s *State) SetNoteEditor(e Editor) error {
	switch e.Mode {
	case EditorClosed:
		s.NoteEditor = Closed()
	case EditorAdding:
		s.NoteEditor = Adding()
	case EditorEditing:
		if e.TargetID == uuid.Nil {
			return ErrInvalidEditor
		}
		s.NoteEditor = Editing(e.TargetID)
	default:
		return ErrInvalidEditor
	}
	return nil
}

// Confirm opens a confirmation dialog for action on target
func (s *State) Confirm(action string, target uuid.UUID) {
	s.Dialog = Dialog{Action: action, TargetID: target}
}

// Dismiss closes any open dialog
func (s *State) Dismiss() {
	s.Dialog = Dialog{}
}
