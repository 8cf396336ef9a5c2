package systems

import (
	"os"
	"testing"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()
	domain.Strict = true

	os.Exit(m.Run())
}
