package demotests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/webapp"
	"github.com/TotallyNotChase/flask-unittest/webtest"
)

// AppCases exercises the app object directly. Each method receives its own app
// instance, so state written by one method is invisible to the next.
func AppCases() []webtest.Case {
	return []webtest.Case{
		appSetupCase(),
		appGlobalsCase(),
		appIsolationCase(),
	}
}

func appSetupCase() webtest.Case {
	requireApp := func(t *webtest.T, app *webapp.App) {
		require.NotNil(t, app)
		require.Equal(t, "flaskr", app.Name())
	}
	return webtest.AppCase{
		Name:     "setup",
		NewApp:   buildApp,
		SetUp:    requireApp,
		TearDown: requireApp,
		Tests: []webtest.AppTest{
			{Name: "app is injected", Run: requireApp},
		},
	}
}

func appGlobalsCase() webtest.Case {
	return webtest.AppCase{
		Name:   "globals",
		NewApp: buildApp,
		Tests: []webtest.AppTest{
			{Name: "request scopes resolve endpoints", Run: func(t *webtest.T, app *webapp.App) {
				scope, err := app.RequestScope("GET", "/1/update")
				require.NoError(t, err)
				defer scope.Close()

				assert.Equal(t, "blog.update", scope.Endpoint())
				assert.Equal(t, "GET", scope.Method())
				assert.Equal(t, "/1/update", scope.Target())
			}},
			{Name: "client scopes track sessions", Run: func(t *webtest.T, app *webapp.App) {
				client, err := app.NewClient(webapp.ClientOptions{})
				require.NoError(t, err)

				signup(t, client, MockUser.Username, MockUser.Password)
				login(t, client, MockUser.Username, MockUser.Password)

				scope, err := client.OpenScope()
				require.NoError(t, err)
				defer scope.Close()

				_, err = client.Get("/")
				require.NoError(t, err)

				assert.Equal(t, "blog.index", scope.Endpoint())
				userID, ok := scope.Session().Int("user_id")
				require.True(t, ok, "logging in must store user_id in the session")
				assert.Equal(t, 1, userID)
			}},
		},
	}
}

// appIsolationCase relies on methods running in declaration order: the account
// registered by the first method must be gone by the time the second runs.
func appIsolationCase() webtest.Case {
	return webtest.AppCase{
		Name:   "isolation",
		NewApp: buildApp,
		Tests: []webtest.AppTest{
			{Name: "register a user", Run: func(t *webtest.T, app *webapp.App) {
				client, err := app.NewClient(webapp.ClientOptions{})
				require.NoError(t, err)
				signup(t, client, MockUser.Username, MockUser.Password)
				login(t, client, MockUser.Username, MockUser.Password)
			}},
			{Name: "the next method starts from a blank app", Run: func(t *webtest.T, app *webapp.App) {
				client, err := app.NewClient(webapp.ClientOptions{})
				require.NoError(t, err)

				resp, err := client.PostForm("/auth/login",
					credentials(MockUser.Username, MockUser.Password), webapp.FollowRedirects())
				require.NoError(t, err)
				webtest.AssertStatus(t, resp, 200)
				webtest.AssertBodyContains(t, resp, "Incorrect username.")
			}},
		},
	}
}
