package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMappingTable(t *testing.T) {
	cases := []struct {
		raw   string
		stage Stage
		badge Badge
	}{
		{"CV Received", StageNew, BadgePurple},
		{"New", StageNew, BadgePurple},
		{"", StageNew, BadgePurple},
		{"CV Shortlisted by Client", StageScheduled, BadgePink},
		{"Scheduled", StageScheduled, BadgePink},
		{"Interview Scheduled", StageInterviewed, BadgeInfo},
		{"Interviewed", StageInterviewed, BadgeInfo},
		{"Interview Completed", StageOffered, BadgeWarning},
		{"Offered", StageOffered, BadgeWarning},
		{"Selected", StageHired, BadgeSuccess},
		{"Offer Received", StageHired, BadgeSuccess},
		{"Hired", StageHired, BadgeSuccess},
		{"Rejected", StageRejected, BadgeDanger},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := Resolve(tc.raw)
			assert.Equal(t, tc.stage, got.Stage)
			assert.Equal(t, tc.badge, got.Badge)
			assert.Equal(t, string(tc.stage), got.Label)
			assert.Equal(t, tc.raw, got.Raw)
		})
	}
}

func TestResolveUnmatchedFallsBackToNew(t *testing.T) {
	for _, raw := range []string{"rejected", "HIRED", "On Hold", " New"} {
		got := Resolve(raw)
		assert.Equal(t, StageNew, got.Stage, "raw %q", raw)
		assert.Equal(t, BadgeSecondary, got.Badge, "raw %q", raw)
	}
}

func TestAdvance(t *testing.T) {
	next, err := Advance(StageNew)
	require.NoError(t, err)
	assert.Equal(t, StageScheduled, next)

	next, err = Advance(StageScheduled)
	require.NoError(t, err)
	assert.Equal(t, StageInterviewed, next)

	next, err = Advance(StageInterviewed)
	require.NoError(t, err)
	assert.Equal(t, StageOffered, next)

	next, err = Advance(StageOffered)
	require.NoError(t, err)
	assert.Equal(t, StageHired, next)
}

func TestAdvanceTerminalStages(t *testing.T) {
	_, err := Advance(StageHired)
	assert.ErrorIs(t, err, ErrFinalStage)
	assert.True(t, IsSignal(err))

	_, err = Advance(StageRejected)
	assert.ErrorIs(t, err, ErrRejected)
	assert.False(t, IsSignal(err))
}

func TestAdvanceUnknownFallsBackToScheduled(t *testing.T) {
	next, err := Advance(Stage("Pending Review"))
	require.NoError(t, err)
	assert.Equal(t, StageScheduled, next)
}

func TestJumpTo(t *testing.T) {
	next, err := JumpTo(StageNew, StageHired)
	require.NoError(t, err)
	assert.Equal(t, StageHired, next)

	// backwards is allowed
	next, err = JumpTo(StageOffered, StageScheduled)
	require.NoError(t, err)
	assert.Equal(t, StageScheduled, next)

	_, err = JumpTo(StageOffered, StageOffered)
	assert.ErrorIs(t, err, ErrAlreadyAtStage)

	_, err = JumpTo(StageOffered, Stage("Archived"))
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestReject(t *testing.T) {
	next, err := Reject(StageInterviewed)
	require.NoError(t, err)
	assert.Equal(t, StageRejected, next)

	_, err = Reject(StageRejected)
	assert.ErrorIs(t, err, ErrAlreadyAtStage)

	_, err = Reject(StageHired)
	assert.ErrorIs(t, err, ErrFinalStage)
}

func TestStagesOrdering(t *testing.T) {
	stages := Stages()
	require.Len(t, stages, 6)
	assert.Equal(t, StageNew, stages[0])
	assert.Equal(t, StageRejected, stages[5])
	assert.Less(t, StageScheduled.Index(), StageOffered.Index())
	assert.Equal(t, -1, Stage("nope").Index())
	assert.True(t, StageHired.Terminal())
	assert.False(t, StageOffered.Terminal())
}
