package demotests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/harness"
)

func reportFailures(t *testing.T, results harness.Results) {
	t.Helper()
	for _, failure := range results.Failures {
		for _, err := range failure.Errors {
			t.Errorf("%s: %v", failure.TestID, err)
		}
	}
	require.True(t, results.OK())
}

func TestNormalSuite(t *testing.T) {
	suite, err := NormalSuite()
	require.NoError(t, err)
	reportFailures(t, suite.Run(nil, nil))
}

func TestLiveSuite(t *testing.T) {
	suite, err := LiveSuite()
	require.NoError(t, err)
	reportFailures(t, suite.Run(nil, nil))
}
