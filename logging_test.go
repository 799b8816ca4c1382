package constellation

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, "orbit", false)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String())

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	l.Infof("bodies=%d", 1024)
	l.Warnf("slow frame")
	l.Errorf("lost device")

	assert.Contains(t, out.String(), "[orbit] DEBUG: shown 2")
	assert.Contains(t, out.String(), "[orbit] INFO: bodies=1024")
	assert.Contains(t, errOut.String(), "[orbit] WARN: slow frame")
	assert.Contains(t, errOut.String(), "[orbit] ERROR: lost device")
	assert.NotContains(t, out.String(), "WARN")
}

func TestThrottledLoggerDropsBursts(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewThrottledLogger(NewLoggerTo(&out, &errOut, "", true), time.Hour)

	for i := 0; i < 10; i++ {
		l.Warnf("dt clamped %d", i)
	}
	assert.Equal(t, 1, bytes.Count(errOut.Bytes(), []byte("WARN")))
	assert.Contains(t, errOut.String(), "dt clamped 0")

	l.Infof("not throttled")
	l.Infof("not throttled")
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("not throttled")))
}

func TestThrottledLoggerLevelsAreIndependent(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewThrottledLogger(NewLoggerTo(&out, &errOut, "", true), time.Hour)

	l.Debugf("frame delta clamped")
	l.Debugf("frame delta clamped")
	l.Warnf("overlay upload failed")
	l.Errorf("frame dropped")
	l.Errorf("frame dropped again")

	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("DEBUG")))
	assert.Contains(t, errOut.String(), "WARN: overlay upload failed")
	assert.Contains(t, errOut.String(), "ERROR: frame dropped")
	assert.NotContains(t, errOut.String(), "again")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "LEVEL(9)", Level(9).String())
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	l.Errorf("ignored")

	assert.NotNil(t, NewThrottledLogger(nil, time.Second))
}
