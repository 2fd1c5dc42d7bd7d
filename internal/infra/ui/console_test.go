package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsolePlainPrefixes(t *testing.T) {
	var out bytes.Buffer
	console := NewWithColor(&out, false)

	console.Info("starting")
	console.Warn("careful")
	console.Error("broken")
	console.Item("DM_GQL_ENDPOINT", "https://dm.example/graphql")
	console.ItemPlain("DM Service: internal")

	expected := "[INFO] starting\n" +
		"[WARNING] careful\n" +
		"[ERROR] broken\n" +
		"  DM_GQL_ENDPOINT=https://dm.example/graphql\n" +
		"  DM Service: internal\n"
	assert.Equal(t, expected, out.String())
}

func TestConsoleColorPrefixes(t *testing.T) {
	var out bytes.Buffer
	console := NewWithColor(&out, true)

	console.Warn("careful")
	assert.Equal(t, "\033[1;33m[WARNING]\033[0m careful\n", out.String())
}

func TestNewDisablesColorForBuffers(t *testing.T) {
	var out bytes.Buffer
	assert.False(t, New(&out).ColorEnabled)
}
