package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit_CreatesFileAndReturnsLogger(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "run.log")

	logger, cleanup, err := Init(logPath, true)
	assert.NoError(t, err)
	assert.NotNil(t, logger)
	defer cleanup()

	logger.Info("hello")

	_, statErr := os.Stat(logPath)
	assert.NoError(t, statErr, "log file should be created")
}

func TestInit_EmptyPathSkipsFile(t *testing.T) {
	logger, cleanup, err := Init("", false)
	assert.NoError(t, err)
	assert.NotNil(t, logger)
	defer cleanup()
}

func TestInit_RotatesExistingFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "run.log")
	assert.NoError(t, os.WriteFile(logPath, []byte("old run\n"), 0o644))

	_, cleanup, err := Init(logPath, false)
	assert.NoError(t, err)
	defer cleanup()

	_, err = os.Stat(logPath + ".old")
	assert.NoError(t, err, "previous log should be rotated to .old")
}

func TestGlobalLogCapture_RecordsLastLine(t *testing.T) {
	logger, cleanup, err := Init("", false)
	assert.NoError(t, err)
	defer cleanup()

	logger.Info("capture me")
	assert.Contains(t, GlobalLogCapture.GetLastLine(), "capture me")
}
