package host

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// zombieChildren counts processes in state Z whose parent is this process.
func zombieChildren() int {
	stats, _ := filepath.Glob("/proc/[0-9]*/stat")

	self := strconv.Itoa(os.Getpid())
	n := 0
	for _, path := range stats {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		// pid (comm) state ppid ...; comm may contain spaces
		s := string(data)
		i := strings.LastIndexByte(s, ')')
		if i < 0 {
			continue
		}
		fields := strings.Fields(s[i+1:])
		if len(fields) >= 2 && fields[0] == "Z" && fields[1] == self {
			n++
		}
	}
	return n
}

func TestLaunch_ReapsExitedChildren(t *testing.T) {
	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}
	h := &OS{Logger: zaptest.NewLogger(t)}
	before := zombieChildren()

	for i := 0; i < 3; i++ {
		require.NoError(t, h.Launch(bin))
	}

	assert.Eventually(t, func() bool { return zombieChildren() <= before },
		2*time.Second, 50*time.Millisecond, "exited children must not be left as zombies")
}
