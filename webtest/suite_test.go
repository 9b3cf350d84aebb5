package webtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/harness"
	"github.com/TotallyNotChase/flask-unittest/webapp"
)

func hasResult(results harness.Results, id string) bool {
	for _, r := range results.Tests {
		if r.TestID.String() == id {
			return true
		}
	}
	return false
}

func TestSuiteRunsCasesInOrder(t *testing.T) {
	log := &callLog{}
	method := func(name string) []AppTest {
		return []AppTest{{Name: "method", Run: func(t *T, app *webapp.App) { log.add(name) }}}
	}
	suite := NewSuite("s").
		Add(AppCase{Name: "first", NewApp: plainApp, Tests: method("first")}).
		Add(AppCase{Name: "second", NewApp: plainApp, Tests: method("second")})

	results := suite.Run(nil, nil)

	require.True(t, results.OK())
	assert.Equal(t, []string{"first", "second"}, log.list())
	assert.True(t, hasResult(results, "s/first/method"))
	assert.True(t, hasResult(results, "s/second/method"))
}

func TestSuiteFilterExcludesMethods(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:   "case",
		NewApp: plainApp,
		Tests: []AppTest{
			{Name: "kept", Run: func(t *T, app *webapp.App) { log.add("kept") }},
			{Name: "excluded", Run: func(t *T, app *webapp.App) { log.add("excluded") }},
		},
	})

	var filters harness.RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("excluded"))
	results := suite.Run(filters.AsFilter, nil)

	require.True(t, results.OK())
	assert.Equal(t, []string{"kept"}, log.list())
	assert.True(t, hasResult(results, "s/case/kept"))
	assert.False(t, hasResult(results, "s/case/excluded"))
}

func TestBeforeAllFailurePreventsMethodsButRunsAfterAll(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:   "case",
		NewApp: plainApp,
		BeforeAll: func(t *T) {
			log.add("beforeAll")
			t.Errorf("shared state could not be prepared")
		},
		AfterAll: func(t *T) { log.add("afterAll") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { log.add("body") }},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.Equal(t, []string{"beforeAll", "afterAll"}, log.list())
	assert.False(t, hasResult(results, "s/case/method"))
}

func TestBeforeAllSkipPreventsMethods(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:      "case",
		NewApp:    plainApp,
		BeforeAll: func(t *T) { t.SkipWithReason("whole case does not apply") },
		AfterAll:  func(t *T) { log.add("afterAll") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { log.add("body") }},
		},
	})

	results := suite.Run(nil, nil)

	assert.True(t, results.OK())
	assert.Equal(t, []string{"afterAll"}, log.list())
	assert.True(t, resultFor(t, results, "s/case").Skipped)
}

func TestAfterAllRunsAfterMethodFailure(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:     "case",
		NewApp:   plainApp,
		AfterAll: func(t *T) { log.add("afterAll") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { t.Errorf("boom") }},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.Equal(t, []string{"afterAll"}, log.list())
}

func TestMixedCaseKindsRunInOneSuite(t *testing.T) {
	app := webapp.New("shared", nil)
	log := &callLog{}
	suite := NewSuite("s").Add(
		AppCase{
			Name:   "app",
			NewApp: plainApp,
			Tests:  []AppTest{{Name: "m", Run: func(t *T, a *webapp.App) { log.add("app") }}},
		},
		ClientCase{
			Name:  "client",
			App:   app,
			Tests: []ClientTest{{Name: "m", Run: func(t *T, c *webapp.Client) { log.add("client") }}},
		},
		AppClientCase{
			Name:   "appclient",
			NewApp: plainApp,
			Tests: []AppClientTest{{Name: "m", Run: func(t *T, a *webapp.App, c *webapp.Client) {
				log.add("appclient")
			}}},
		},
	)

	results := suite.Run(nil, nil)

	require.True(t, results.OK())
	assert.Equal(t, []string{"app", "client", "appclient"}, log.list())
}
