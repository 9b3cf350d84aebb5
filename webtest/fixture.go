package webtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/TotallyNotChase/flask-unittest/webapp"
)

// AppFunc builds a fresh application for one test method.
type AppFunc func() (*webapp.App, error)

// AppGenerator is a generator-style fixture. It builds an application, hands it
// over by calling yield exactly once, and regains control after the test method
// (including TearDown) has finished. Statements after the yield call are the
// fixture's cleanup and run exactly once per test method, no matter how the
// method ended.
//
//	func dbApp(yield func(*webapp.App)) {
//	    app := makeApp()
//	    seedDatabase(app)
//	    yield(app)
//	    dropDatabase(app)
//	}
type AppGenerator func(yield func(*webapp.App))

var errFixtureNoApp = errors.New("app fixture finished without providing an app")

// generatorRun is one execution of an AppGenerator. The generator body runs in
// its own goroutine; the test side steps it with acquire and release.
type generatorRun struct {
	resource   chan *webapp.App
	resume     chan struct{}
	done       chan struct{}
	resumeOnce sync.Once

	// written by the generator goroutine before done is closed
	err         error
	extraYields bool
}

func startGenerator(gen AppGenerator) *generatorRun {
	r := &generatorRun{
		resource: make(chan *webapp.App),
		resume:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go func() {
		defer func() {
			if p := recover(); p != nil {
				r.err = fmt.Errorf("panic in app fixture: %+v", p)
			}
			close(r.done)
		}()
		yielded := false
		gen(func(app *webapp.App) {
			if yielded {
				r.extraYields = true
				return
			}
			yielded = true
			r.resource <- app
			<-r.resume
		})
	}()
	return r
}

// acquire waits for the generator to yield the app, or to finish without one.
func (r *generatorRun) acquire() (*webapp.App, error) {
	select {
	case app := <-r.resource:
		return app, nil
	case <-r.done:
		if r.err != nil {
			return nil, r.err
		}
		return nil, errFixtureNoApp
	}
}

// release resumes the generator so its cleanup runs, and waits for it to finish.
func (r *generatorRun) release() error {
	r.resumeOnce.Do(func() { close(r.resume) })
	<-r.done
	if r.err != nil {
		return r.err
	}
	if r.extraYields {
		return errors.New("app fixture yielded more than once")
	}
	return nil
}

// acquireApp obtains the application for one test method from whichever provider
// the case defines. On success it also returns the release hook that must run
// when the method is over.
func acquireApp(build AppFunc, fixture AppGenerator) (*webapp.App, func() error, error) {
	switch {
	case build != nil && fixture != nil:
		return nil, nil, errors.New("case defines both NewApp and AppFixture; exactly one is required")
	case build == nil && fixture == nil:
		return nil, nil, errors.New("case defines neither NewApp nor AppFixture; exactly one is required")
	case build != nil:
		app, err := build()
		if err != nil {
			return nil, nil, fmt.Errorf("could not build app: %w", err)
		}
		if app == nil {
			return nil, nil, errors.New("app builder returned a nil app")
		}
		return app, func() error { return nil }, nil
	default:
		run := startGenerator(fixture)
		app, err := run.acquire()
		if err != nil {
			return nil, nil, err
		}
		if app == nil {
			_ = run.release()
			return nil, nil, errors.New("app fixture yielded a nil app")
		}
		return app, run.release, nil
	}
}
