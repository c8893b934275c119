// Package apperr classifies failures into the four user-facing kinds the
// grid surfaces: validation, authentication, server-reported and unexpected.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuth
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	default:
		return "unexpected"
	}
}

// Error carries a title/message pair suitable for an error dialog
type Error struct {
	Kind    Kind
	Status  int
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

const (
	unexpectedTitle   = "Error"
	unexpectedMessage = "An unexpected error occurred"
	duplicateKeyMongo = "E11000 duplicate key error"
	uniqueViolation   = "23505"
	foreignKeyMissing = "23503"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("record changed concurrently")
)

func Validation(title string, err error) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Title: title, Message: err.Error(), Err: err}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Title: "Authentication Required", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusForbidden, Title: "Access Denied", Message: message}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindServer, Status: http.StatusNotFound, Title: "Not Found", Message: what + " not found", Err: ErrNotFound}
}

// Duplicate is the conflict returned when a unique key (email) already exists
func Duplicate(err error) *Error {
	return &Error{
		Kind:    KindServer,
		Status:  http.StatusConflict,
		Title:   "Duplicate Email",
		Message: "A candidate with this email already exists",
		Err:     err,
	}
}

// FromMessage maps a server-reported message onto a title/message pair.
// Duplicate keys are recognised by substring, the way legacy backends report them.
func FromMessage(status int, msg string) *Error {
	if strings.Contains(msg, duplicateKeyMongo) && strings.Contains(msg, "email") {
		return Duplicate(errors.New(msg))
	}
	if msg == "" {
		msg = unexpectedMessage
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: KindServer, Status: status, Title: "Request Failed", Message: msg}
}

// Classify turns any error into an *Error. Already-classified errors pass
// through; Postgres unique violations on an email constraint become Duplicate;
// missing rows become NotFound; everything else is unexpected.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") || strings.Contains(pgErr.Detail, "email") {
			return Duplicate(err)
		}
		return &Error{Kind: KindServer, Status: http.StatusConflict, Title: "Duplicate Record", Message: "This record already exists", Err: err}
	}

	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyMissing {
		return &Error{Kind: KindServer, Status: http.StatusNotFound, Title: "Not Found", Message: "The parent record was not found", Err: err}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return &Error{Kind: KindServer, Status: http.StatusNotFound, Title: "Not Found", Message: "The requested record was not found", Err: err}
	}

	if errors.Is(err, ErrConflict) {
		return &Error{Kind: KindServer, Status: http.StatusConflict, Title: "Record Changed", Message: "This candidate was changed by someone else. Refresh and try again.", Err: err}
	}

	if strings.Contains(err.Error(), duplicateKeyMongo) {
		return FromMessage(http.StatusConflict, err.Error())
	}

	return &Error{Kind: KindUnexpected, Status: http.StatusInternalServerError, Title: unexpectedTitle, Message: unexpectedMessage, Err: err}
}
