// Package webapp is a small web application layer built for testability. It wraps
// net/http with the pieces a test harness needs to exercise an application from the
// inside: named routes whose endpoint can be resolved for a URL without dispatching,
// explicit ambient scopes whose lifetime is observable, signed cookie sessions, and
// an in-process Client that talks to the app without a network listener.
//
// An App can also serve real HTTP traffic (Serve) for tests that need a live server,
// in which case the bound address is exposed once the listener is up.
package webapp
