package testutil

import (
	"context"
	"os"
	"time"

	"github.com/stretchr/testify/suite"
)

// IntegrationTestSuite provides base functionality for tests that talk to a
// live backend. Suites are skipped unless the named environment variable is set.
type IntegrationTestSuite struct {
	suite.Suite
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time

	// EnvVar names the variable holding the backend address
	EnvVar string
	addr   string
}

// SetupSuite runs before all tests in the suite
func (s *IntegrationTestSuite) SetupSuite() {
	s.addr = os.Getenv(s.EnvVar)
	if s.addr == "" {
		s.T().Skipf("%s not set, skipping integration tests", s.EnvVar)
	}
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	s.startTime = time.Now()
}

// TearDownSuite runs after all tests in the suite
func (s *IntegrationTestSuite) TearDownSuite() {
	if s.cancel != nil {
		s.cancel()
	}
	s.T().Logf("Integration test suite completed in %v", time.Since(s.startTime))
}

// Context returns the suite context
func (s *IntegrationTestSuite) Context() context.Context {
	return s.ctx
}

// Addr returns the backend address read from EnvVar
func (s *IntegrationTestSuite) Addr() string {
	return s.addr
}
