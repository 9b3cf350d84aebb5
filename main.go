package main

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/TotallyNotChase/flask-unittest/demotests"
	"github.com/TotallyNotChase/flask-unittest/harness"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	fmt.Println()
	harness.PrintFilterDescription(params.filters)

	fmt.Println("Running test suite")

	testLogger := &harness.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := runSuites(params, testLogger)

	fmt.Println()
	harness.PrintResults(results)
	if !results.OK() {
		printRerunHint(results)
		os.Exit(1)
	}
}

func runSuites(params commandParams, logger harness.TestLogger) harness.Results {
	var results harness.Results

	if !params.skipLive {
		live, err := demotests.LiveSuite()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not set up the demo app: %s\n", err)
			os.Exit(1)
		}
		live.StartupTimeoutMS = ldvalue.NewOptionalInt(params.startupTimeoutMS)
		results = live.Run(params.filters.AsFilter, logger)
	}

	suite, err := demotests.NormalSuite()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not set up the demo app: %s\n", err)
		os.Exit(1)
	}
	return mergeResults(results, suite.Run(params.filters.AsFilter, logger))
}

func mergeResults(all ...harness.Results) harness.Results {
	var merged harness.Results
	for _, r := range all {
		merged.Tests = append(merged.Tests, r.Tests...)
		merged.Failures = append(merged.Failures, r.Failures...)
	}
	return merged
}

// printRerunHint prints a ready to paste command line that reruns only the tests
// that failed.
func printRerunHint(results harness.Results) {
	var cmd commandBuilder
	cmd.add(os.Args[0])
	for _, f := range results.Failures {
		cmd.add("-run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	fmt.Println()
	fmt.Printf("To rerun only the failed tests:\n  %s\n", cmd)
}
