package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugOnlyInDevelopment(t *testing.T) {
	var buf bytes.Buffer

	Configure("production", &buf)
	Debug("hidden %d", 1)
	assert.NotContains(t, buf.String(), "hidden")

	Configure("development", &buf)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")

	Warn("careful")
	assert.Contains(t, buf.String(), "WARN: ")
}

func TestFieldsSorted(t *testing.T) {
	out := Fields(map[string]interface{}{"room": "r1", "actor": "u1", "count": 3})
	assert.Equal(t, "actor=u1 count=3 room=r1", out)
}
