package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLaunchBrowserReportsMissingOpener(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	var stderr bytes.Buffer
	err := launchBrowser("https://identity.example/#authorize", "linux", &stderr)
	assert.ErrorContains(t, err, "failed to launch browser")
	assert.Contains(t, stderr.String(), "https://identity.example/#authorize")
}

func TestLaunchBrowserUnknownPlatform(t *testing.T) {
	var stderr bytes.Buffer
	assert.NoError(t, launchBrowser("https://identity.example/", "plan9", &stderr))
	assert.Contains(t, stderr.String(), "https://identity.example/")
}
