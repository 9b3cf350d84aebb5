package webtest

import (
	"github.com/TotallyNotChase/flask-unittest/harness"
)

// T represents a test in progress. It is the first parameter to every test phase
// (BeforeAll, SetUp, the test body, TearDown, AfterAll) and provides a subset of
// the functionality of Go's testing.T, so that tests can run outside of "go test"
// and their results can be collected programmatically.
//
// T implements the TestingT interface used by the assert and require packages of
// testify, so all of those assertion helpers work on it directly.
type T struct {
	context *harness.Context
}

func newT(c *harness.Context) *T {
	return &T{context: c}
}

// ID returns the full path of the test being run.
func (t *T) ID() harness.TestID {
	return t.context.ID()
}

// Errorf reports a test failure and continues the current phase.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow stops the current phase immediately. If no error was reported before,
// a generic failure message is added.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Failed tells whether any error has been reported for this test so far.
func (t *T) Failed() bool {
	return t.context.Failed()
}

// Skip stops the current phase and marks the test as skipped rather than failed.
// Skipping in SetUp skips the test body and TearDown as well; resources are still
// released.
func (t *T) Skip() {
	t.context.Skip()
}

// SkipWithReason is Skip with an explanation that test loggers can show.
func (t *T) SkipWithReason(reason string) {
	t.context.SkipWithReason(reason)
}

// Debug writes a message to the test's debug output.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// DebugLogger returns the logger that receives this test's debug output.
func (t *T) DebugLogger() harness.Logger {
	return t.context.DebugLogger()
}
