package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/TotallyNotChase/flask-unittest/harness"
)

type commandParams struct {
	filters          harness.RegexFilters
	skipLive         bool
	startupTimeoutMS int
	debug            bool
	debugAll         bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.skipLive, "skip-live", false, "do not run the live server suite")
	fs.IntVar(&c.startupTimeoutMS, "startup-timeout-ms", 5000,
		"how long to wait for the live server to accept connections, in milliseconds (0 waits indefinitely)")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.startupTimeoutMS < 0 {
		fmt.Fprintln(os.Stderr, "-startup-timeout-ms must not be negative")
		fs.Usage()
		return false
	}
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
