package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/pipeline"
)

func newPipeline() (*PipelineService, *fakeRepo, *fakeRecorder) {
	repo := newFakeRepo()
	rec := &fakeRecorder{}
	return NewPipelineService(repo, repo, rec), repo, rec
}

func TestAdvanceFollowsHappyPath(t *testing.T) {
	svc, repo, rec := newPipeline()
	id := repo.add("CV Received")
	ctx := context.Background()

	want := []pipeline.Stage{
		pipeline.StageScheduled,
		pipeline.StageInterviewed,
		pipeline.StageOffered,
		pipeline.StageHired,
	}
	for _, stage := range want {
		tr, err := svc.Advance(ctx, id, "recruiter@example.com")
		require.NoError(t, err)
		assert.True(t, tr.Changed)
		assert.Equal(t, stage, tr.To)
		assert.Equal(t, stage.String(), tr.Detail.Status)
	}

	assert.Equal(t, 4, repo.statusCalls)
	assert.Len(t, rec.transitions, 4)
	assert.Equal(t, "advance:New->Scheduled", rec.transitions[0])
}

func TestAdvanceLegacyAlias(t *testing.T) {
	svc, repo, _ := newPipeline()
	id := repo.add("Interview Completed")

	tr, err := svc.Advance(context.Background(), id, "u")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageOffered, tr.From)
	assert.Equal(t, pipeline.StageHired, tr.To)
}

func TestAdvanceHiredIsSignalWithoutMutation(t *testing.T) {
	svc, repo, rec := newPipeline()
	id := repo.add("Selected")

	tr, err := svc.Advance(context.Background(), id, "u")
	require.NoError(t, err)
	assert.False(t, tr.Changed)
	assert.Equal(t, pipeline.ErrFinalStage.Error(), tr.Message)
	assert.NotNil(t, tr.Detail)
	assert.Zero(t, repo.statusCalls)
	assert.Equal(t, []string{"advance:final_stage"}, rec.refused)
}

func TestAdvanceRejectedIsValidationError(t *testing.T) {
	svc, repo, rec := newPipeline()
	id := repo.add("Rejected")

	_, err := svc.Advance(context.Background(), id, "u")
	require.Error(t, err)

	ae := apperr.Classify(err)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.True(t, errors.Is(err, pipeline.ErrRejected))
	assert.Zero(t, repo.statusCalls)
	assert.Equal(t, []string{"advance:rejected"}, rec.refused)
}

func TestJumpToIsPermissiveBackwards(t *testing.T) {
	svc, repo, _ := newPipeline()
	id := repo.add("Offered")

	tr, err := svc.JumpTo(context.Background(), id, pipeline.StageScheduled, "u", "client asked for another round")
	require.NoError(t, err)
	assert.True(t, tr.Changed)
	assert.Equal(t, "Scheduled", tr.Detail.Status)
}

func TestJumpToSameStageIsSignal(t *testing.T) {
	svc, repo, _ := newPipeline()
	id := repo.add("")

	tr, err := svc.JumpTo(context.Background(), id, pipeline.StageNew, "u", "")
	require.NoError(t, err)
	assert.False(t, tr.Changed)
	assert.Equal(t, pipeline.ErrAlreadyAtStage.Error(), tr.Message)
	assert.Zero(t, repo.statusCalls)
}

func TestJumpToUnknownStage(t *testing.T) {
	svc, repo, _ := newPipeline()
	id := repo.add("New")

	_, err := svc.JumpTo(context.Background(), id, pipeline.Stage("Ghosted"), "u", "")
	assert.ErrorIs(t, err, pipeline.ErrUnknownStage)
}

func TestReject(t *testing.T) {
	svc, repo, _ := newPipeline()
	id := repo.add("Interviewed")

	tr, err := svc.Reject(context.Background(), id, "u", "not a fit")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageRejected, tr.To)

	tr, err = svc.Reject(context.Background(), id, "u", "")
	require.NoError(t, err)
	assert.False(t, tr.Changed)
}

func TestRejectHiredIsSignal(t *testing.T) {
	svc, repo, _ := newPipeline()
	id := repo.add("Hired")

	tr, err := svc.Reject(context.Background(), id, "u", "")
	require.NoError(t, err)
	assert.False(t, tr.Changed)
	assert.Zero(t, repo.statusCalls)
}

func TestTransitionMissingCandidate(t *testing.T) {
	svc, _, _ := newPipeline()

	_, err := svc.Advance(context.Background(), uuid.New(), "u")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.Classify(err).Status)
}

func TestTransitionConflictSurfaces(t *testing.T) {
	svc, repo, rec := newPipeline()
	id := repo.add("New")
	repo.updateErr = apperr.ErrConflict

	_, err := svc.Advance(context.Background(), id, "u")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.Classify(err).Status)
	assert.Empty(t, rec.transitions)
}
