package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewJSONHasComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)

	Component(log, "orders").Info("hello")

	assert.Contains(t, buf.String(), `"component":"orders"`)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	log := New("chatty", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "text", &buf)
	log.Debug("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=warning")
}
