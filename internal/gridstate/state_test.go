package gridstate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/candidate-grid/internal/paging"
	"github.com/staffhub/candidate-grid/internal/submission"
)

func TestNewState(t *testing.T) {
	s := New()
	assert.Equal(t, TabProfile, s.Tab)
	assert.Equal(t, submission.ThisMonth, s.SubmissionFilter.Token)
	assert.Equal(t, 1, s.SubmissionPage)
	assert.Equal(t, 1, s.InterviewPage)
	assert.False(t, s.NoteEditor.IsOpen())
	assert.False(t, s.Dialog.Open())
}

func TestSelectCandidateResetsPagers(t *testing.T) {
	s := New()
	require.NoError(t, s.SetTab(TabInterviews))
	require.NoError(t, s.SetInterviewPage(4))
	require.NoError(t, s.SetSubmissionPage(2))
	require.NoError(t, s.SetNoteEditor(Adding()))
	s.Confirm("delete-note", uuid.New())

	id := uuid.New()
	s.SelectCandidate(id)

	assert.Equal(t, id, s.CandidateID)
	assert.Equal(t, 1, s.InterviewPage)
	assert.Equal(t, 1, s.SubmissionPage)
	assert.Equal(t, TabInterviews, s.Tab)
	assert.False(t, s.NoteEditor.IsOpen())
	assert.False(t, s.Dialog.Open())
}

func TestSetSubmissionFilterResetsPage(t *testing.T) {
	tokens := []string{submission.LastWeek, submission.ThisMonth, submission.LastMonth, submission.LastSixMons, submission.DateRange}
	for _, tok := range tokens {
		s := New()
		require.NoError(t, s.SetSubmissionPage(3))
		require.NoError(t, s.SetSubmissionFilter(SubmissionFilter{Token: tok}))
		assert.Equal(t, 1, s.SubmissionPage, tok)
	}
}

func TestSetSubmissionFilterRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	s := New()
	require.NoError(t, s.SetSubmissionFilter(SubmissionFilter{Token: submission.DateRange, From: from, To: to}))
	assert.Equal(t, from, s.SubmissionFilter.From)

	// named tokens drop a stale explicit range
	require.NoError(t, s.SetSubmissionFilter(SubmissionFilter{Token: submission.LastMonth, From: from, To: to}))
	assert.True(t, s.SubmissionFilter.From.IsZero())

	assert.ErrorIs(t, s.SetSubmissionFilter(SubmissionFilter{Token: "yesterday"}), ErrInvalidFilter)
}

func TestSetters(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.SetTab("settings"), ErrInvalidTab)
	assert.ErrorIs(t, s.SetInterviewPage(0), ErrInvalidPage)
	assert.ErrorIs(t, s.SetSubmissionPage(-1), ErrInvalidPage)
	assert.ErrorIs(t, s.SetInterviewPage(922337203685477582), ErrInvalidPage)
	assert.ErrorIs(t, s.SetSubmissionPage(paging.MaxPage+1), ErrInvalidPage)
	assert.Equal(t, 1, s.InterviewPage)
	assert.ErrorIs(t, s.SetNoteEditor(Editor{Mode: EditorEditing}), ErrInvalidEditor)
	assert.ErrorIs(t, s.SetNoteEditor(Editor{Mode: "floating"}), ErrInvalidEditor)

	id := uuid.New()
	require.NoError(t, s.SetNoteEditor(Editing(id)))
	assert.Equal(t, id, s.NoteEditor.EditingID())
	require.NoError(t, s.SetNoteEditor(Closed()))
	assert.Equal(t, uuid.Nil, s.NoteEditor.TargetID)

	s.Confirm("advance", id)
	assert.True(t, s.Dialog.Open())
	s.Dismiss()
	assert.False(t, s.Dialog.Open())
}
