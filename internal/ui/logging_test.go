package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, false)

	log.Debugf("hidden %d\n", 1)
	log.Infof("shown %d\n", 2)
	log.Errorf("failed %s", "x")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "failed x")
	assert.NotContains(t, out, "2\n\n")

	buf.Reset()
	NewLoggerTo(&buf, true).Debugf("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNopLogger(t *testing.T) {
	log := NopLogger()
	log.Errorf("nothing")
	log.Debugf("nothing")
}
