package factory

import (
	"time"

	"github.com/edsafest/trivia-service/internal/dependencies/mocks"
	"github.com/edsafest/trivia-service/internal/services/auth"
	"github.com/edsafest/trivia-service/internal/storage/memory"
	"github.com/edsafest/trivia-service/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 11, 14, 9, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), DefaultRaffleSize, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
