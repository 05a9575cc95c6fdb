package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimPackagePath(t *testing.T) {
	assert.Equal(t, "(*NmapScanner).Invoke", trimPackagePath("github.com/lockwhz/retroscan/internal/scan.(*NmapScanner).Invoke"))
	assert.Equal(t, "main", trimPackagePath("main.main"))
	assert.Equal(t, "plain", trimPackagePath("plain"))
}

func TestLogBeforeInitIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Log.Infof("sem init")
		TraceAuto()()
	})
}
