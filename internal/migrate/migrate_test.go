package migrate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaCoversEveryTable(t *testing.T) {
	ddl := Schema()
	for _, table := range []string{
		"candidates", "submissions", "interviews", "offer_details",
		"notes", "attachments", "background_checks", "status_history",
	} {
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestSchemaEmailConstraintNamed(t *testing.T) {
	// apperr.Classify relies on the constraint name containing "email"
	assert.Contains(t, Schema(), "CONSTRAINT candidates_email_key UNIQUE (email)")
}

func TestSchemaIsIdempotent(t *testing.T) {
	for _, line := range strings.Split(Schema(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "CREATE ") {
			assert.Contains(t, line, "IF NOT EXISTS", line)
		}
	}
}
