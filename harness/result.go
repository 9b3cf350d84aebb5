package harness

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes a summary of the test run to standard output, listing every
// failed test with its errors.
func PrintResults(results Results) {
	if results.OK() {
		color.Green("All tests passed (%d)", len(results.Tests))
		return
	}
	color.Red("FAILED TESTS (%d):", len(results.Failures))
	for _, f := range results.Failures {
		color.Red("* %s", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Printf("  %s\n", line)
			}
		}
	}
}
