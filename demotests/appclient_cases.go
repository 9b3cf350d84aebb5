package demotests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/webapp"
	"github.com/TotallyNotChase/flask-unittest/webtest"
)

// AppClientCases exercises methods that need both the app object and a client
// bound to it, with both rebuilt for every method.
func AppClientCases() []webtest.Case {
	return []webtest.Case{
		appClientSetupCase(),
		appClientGlobalsCase(),
	}
}

func appClientSetupCase() webtest.Case {
	requireBoth := func(t *webtest.T, app *webapp.App, client *webapp.Client) {
		require.NotNil(t, app)
		require.NotNil(t, client)
		require.Same(t, app, client.App())
	}
	return webtest.AppClientCase{
		Name:     "setup",
		NewApp:   buildApp,
		SetUp:    requireBoth,
		TearDown: requireBoth,
		Tests: []webtest.AppClientTest{
			{Name: "app and client are injected", Run: requireBoth},
		},
	}
}

func appClientGlobalsCase() webtest.Case {
	return webtest.AppClientCase{
		Name:   "globals",
		NewApp: buildApp,
		Tests: []webtest.AppClientTest{
			{Name: "session is visible after login", Run: func(t *webtest.T, app *webapp.App, client *webapp.Client) {
				signup(t, client, MockUser.Username, MockUser.Password)
				login(t, client, MockUser.Username, MockUser.Password)

				scope, err := client.OpenScope()
				require.NoError(t, err)
				defer scope.Close()

				_, err = client.Get("/")
				require.NoError(t, err)

				userID, ok := scope.Session().Int("user_id")
				require.True(t, ok)
				assert.Equal(t, 1, userID)
			}},
			{Name: "app and client agree on endpoints", Run: func(t *webtest.T, app *webapp.App, client *webapp.Client) {
				reqScope, err := app.RequestScope("POST", "/auth/login")
				require.NoError(t, err)
				defer reqScope.Close()

				clientScope, err := client.OpenScope()
				require.NoError(t, err)
				defer clientScope.Close()

				signup(t, client, MockUser.Username, MockUser.Password)
				_, err = client.PostForm("/auth/login",
					credentials(MockUser.Username, MockUser.Password))
				require.NoError(t, err)

				assert.Equal(t, reqScope.Endpoint(), clientScope.Endpoint())
				assert.Equal(t, "auth.login", clientScope.Endpoint())
			}},
			{Name: "nav shows the logged in user", Run: func(t *webtest.T, app *webapp.App, client *webapp.Client) {
				signup(t, client, MockUser.Username, MockUser.Password)
				login(t, client, MockUser.Username, MockUser.Password)
				assert.Equal(t, MockUser.Username, navUsername(indexDoc(t, client)))
			}},
		},
	}
}
