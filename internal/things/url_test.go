package things

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildUpdateURL_CancelFlag(t *testing.T) {
	got := BuildUpdateURL(UpdateParams{
		ID:       "things-123",
		Canceled: Bool(true),
	})
	assert.Equal(t, "things:///update?canceled=true&id=things-123", got)
}

func TestBuildUpdateURL_FieldsSortedAndEscaped(t *testing.T) {
	got := BuildUpdateURL(UpdateParams{
		ID: "things-123",
		Fields: map[string]any{
			"title": "Buy milk & eggs",
			"notes": "two lines\nhere",
		},
	})
	assert.Equal(t,
		"things:///update?id=things-123&notes=two+lines%0Ahere&title=Buy+milk+%26+eggs",
		got)
}

func TestBuildUpdateURL_AuthToken(t *testing.T) {
	got := BuildUpdateURL(UpdateParams{
		AuthToken: "tok-1",
		ID:        "things-123",
		Completed: Bool(true),
	})
	assert.Equal(t, "things:///update?auth-token=tok-1&completed=true&id=things-123", got)
}

func TestBuildUpdateProjectURL(t *testing.T) {
	got := BuildUpdateProjectURL(UpdateParams{
		ID:       "proj-7",
		Canceled: Bool(true),
	})
	assert.Equal(t, "things:///update-project?canceled=true&id=proj-7", got)
}

func TestBuildUpdateURL_Deterministic(t *testing.T) {
	p := UpdateParams{
		ID: "things-123",
		Fields: map[string]any{
			"a": 1, "b": 2, "c": 3, "d": 4, "e": 5,
		},
	}
	first := BuildUpdateURL(p)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildUpdateURL(p))
	}
}
