package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestFromMessageDuplicateEmail(t *testing.T) {
	e := FromMessage(http.StatusBadRequest, `E11000 duplicate key error collection: candidates index: email_1 dup key`)
	assert.Equal(t, KindServer, e.Kind)
	assert.Equal(t, http.StatusConflict, e.Status)
	assert.Equal(t, "Duplicate Email", e.Title)
}

func TestFromMessageDuplicateOtherKey(t *testing.T) {
	e := FromMessage(http.StatusBadRequest, `E11000 duplicate key error index: phone_1`)
	assert.Equal(t, "Request Failed", e.Title)
	assert.Equal(t, http.StatusBadRequest, e.Status)
}

func TestFromMessageEmpty(t *testing.T) {
	e := FromMessage(0, "")
	assert.Equal(t, "An unexpected error occurred", e.Message)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
}

func TestClassifyPgUniqueViolation(t *testing.T) {
	err := fmt.Errorf("creating candidate: %w", &pgconn.PgError{Code: "23505", ConstraintName: "candidates_email_key"})
	e := Classify(err)
	assert.Equal(t, "Duplicate Email", e.Title)
	assert.Equal(t, http.StatusConflict, e.Status)
	assert.ErrorIs(t, e, err)
}

func TestClassifyNoRows(t *testing.T) {
	e := Classify(fmt.Errorf("finding candidate: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, e.Status)
}

func TestClassifyPassThrough(t *testing.T) {
	v := Validation("Invalid Date", errors.New("submission date cannot be in the future"))
	assert.Same(t, v, Classify(fmt.Errorf("wrapped: %w", v)))
	assert.Equal(t, KindValidation, v.Kind)
}

func TestClassifyUnexpected(t *testing.T) {
	e := Classify(errors.New("connection reset by peer"))
	assert.Equal(t, KindUnexpected, e.Kind)
	assert.Equal(t, "An unexpected error occurred", e.Message)
	assert.Nil(t, Classify(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "auth", KindAuth.String())
	assert.Equal(t, "server", KindServer.String())
	assert.Equal(t, "unexpected", KindUnexpected.String())
}

func TestClassifyMissingParent(t *testing.T) {
	err := fmt.Errorf("creating note: %w", &pgconn.PgError{Code: "23503", ConstraintName: "notes_candidate_id_fkey"})
	ae := Classify(err)
	assert.Equal(t, http.StatusNotFound, ae.Status)
	assert.Equal(t, KindServer, ae.Kind)
}

func TestClassifyConflict(t *testing.T) {
	ae := Classify(fmt.Errorf("updating status: %w", ErrConflict))
	assert.Equal(t, http.StatusConflict, ae.Status)
	assert.Equal(t, "Record Changed", ae.Title)
}
