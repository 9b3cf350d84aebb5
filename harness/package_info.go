// Package harness contains the low-level implementation of test-run infrastructure
// that can be reused for different kinds of tests.
//
// The general model is:
//
// 1. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Unlike *testing.T, it works outside of the Go test runner, so
// suites built on it can be driven from a regular command-line binary as well as from
// go test.
//
// 2. Test output is decoupled from test execution: a TestLogger receives start/finish/
// error/skip events, and each test can accumulate its own debug output which is attached
// to its result.
//
// 3. The domain-specific code that knows what is being tested is responsible for building
// the resources a test works on, and for providing a domain-specific test API on top of
// the test context.
package harness
