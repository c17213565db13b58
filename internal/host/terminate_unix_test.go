//go:build !windows

package host

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestTerminateByName_NoMatch(t *testing.T) {
	if _, err := exec.LookPath("pkill"); err != nil {
		t.Skip("pkill not available")
	}
	h := &OS{Logger: zaptest.NewLogger(t)}
	assert.NoError(t, h.TerminateByName("jobgate-no-such-process"))
}
