// Package demotests tests the demoapp blog through every flavor the webtest
// package offers: bare app objects, in-process clients, app/client pairs, and
// a live server driven over real HTTP.
package demotests

import (
	"github.com/TotallyNotChase/flask-unittest/demoapp"
	"github.com/TotallyNotChase/flask-unittest/webapp"
	"github.com/TotallyNotChase/flask-unittest/webtest"
)

// buildApp is the app provider used by every case that owns its app.
func buildApp() (*webapp.App, error) {
	return demoapp.New(webapp.Settings{"TESTING": true})
}

// NormalSuite bundles the cases that exercise the app in-process. The client
// cases share one app instance; the app and app/client cases build their own.
func NormalSuite() (*webtest.Suite, error) {
	shared, err := buildApp()
	if err != nil {
		return nil, err
	}
	suite := webtest.NewSuite("flaskr").
		Add(AppCases()...).
		Add(ClientCases(shared)...).
		Add(AppClientCases()...)
	return suite, nil
}

// LiveSuite bundles the cases that drive a real server. PORT 0 lets the server
// pick a free port.
func LiveSuite() (*webtest.LiveSuite, error) {
	app, err := demoapp.New(webapp.Settings{"TESTING": true, "PORT": 0})
	if err != nil {
		return nil, err
	}
	return webtest.NewLiveSuite("flaskr-live", app).Add(LiveCases()...), nil
}
