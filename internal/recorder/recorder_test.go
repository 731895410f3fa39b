// internal/recorder/recorder_test.go
package recorder

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// A nil Recorder is the "recording disabled" value; every method must be
// safe on it so callers never branch.
func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.Record(1, 1, DirectionInbound, "snapshot", map[string]interface{}{"x": 1})
	r.Close()
}

func TestFromEnvDisabledWithoutAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	assert.Nil(t, FromEnv(logrus.New()))
}
