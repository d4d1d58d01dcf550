package page

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/formfill/internal/interfaces"
)

func TestSnapshotFillerSetsValue(t *testing.T) {
	filler, err := NewSnapshotFiller(`<html><body><form><input id="username" type="text"></form></body></html>`)
	require.NoError(t, err)

	err = filler.SetFieldValue(context.Background(), "username", "admin")
	assert.NoError(t, err)
}

func TestSnapshotFillerMissingElement(t *testing.T) {
	filler, err := NewSnapshotFiller(`<html><body><form><input id="username"></form></body></html>`)
	require.NoError(t, err)

	err = filler.SetFieldValue(context.Background(), "password", "secret")
	assert.ErrorIs(t, err, interfaces.ErrElementNotFound)
}

func TestSnapshotFillerMetacharacterIDs(t *testing.T) {
	// Valid HTML ids can contain characters with CSS selector meaning;
	// lookup must behave like getElementById, not like a #id selector
	tests := []struct {
		name string
		id   string
	}{
		{name: "dotted id", id: "user.email"},
		{name: "bracketed id", id: "user[name]"},
		{name: "react useId format", id: ":r1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filler, err := NewSnapshotFiller(`<html><body><form><input id="` + tt.id + `" type="text"></form></body></html>`)
			require.NoError(t, err)

			err = filler.SetFieldValue(context.Background(), tt.id, "value")
			assert.NoError(t, err)
		})
	}
}

func TestSnapshotFillerHostileIDDoesNotMatchOthers(t *testing.T) {
	filler, err := NewSnapshotFiller(`<html><body><form><input id="username"></form></body></html>`)
	require.NoError(t, err)

	err = filler.SetFieldValue(context.Background(), `x"], input[id="username`, "value")
	assert.ErrorIs(t, err, interfaces.ErrElementNotFound)
}
