// Package webtest runs tests against a webapp.App with per-test resource handling.
//
// A test case declares how its application is obtained (a plain builder function,
// or a generator-style fixture whose cleanup is guaranteed to run) and the harness
// drives each test method through the same sequence: build the resources, open
// their ambient scopes, run setUp, run the test body, run tearDown, then close the
// scopes in reverse order and release the resources. Failures in one phase never
// silently swallow the phases that must still run; in particular tearDown and
// resource release run even when setUp or the body failed.
//
// There are four kinds of cases, mirroring the ways a web application can be
// exercised: AppCase (the application object itself), ClientCase (an in-process
// client backed by a shared app), AppClientCase (a fresh app plus a client derived
// from it), and LiveCase (a real HTTP server, started at most once per process and
// shared by every live test that needs it).
//
// Cases are grouped into a Suite (or LiveSuite), which runs them through the
// harness package and returns its Results. The *T passed to every phase satisfies
// the TestingT interface of testify's assert and require packages.
package webtest
