package logx

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG", zerolog.InfoLevel))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warning ", zerolog.InfoLevel))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error", zerolog.InfoLevel))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("", zerolog.InfoLevel))
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("loud", zerolog.TraceLevel))
}

func TestLoggerWritesFieldsAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "info"}, &buf).With(String("comp", "test"))

	log.Debug("hidden")
	log.Info("stored", Int64("user_id", 7), Err(errors.New("boom")), Err(nil))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"stored"`)
	assert.Contains(t, out, `"comp":"test"`)
	assert.Contains(t, out, `"user_id":7`)
	assert.Contains(t, out, `"err":"boom"`)
}

func TestWithDoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(Config{Level: "debug"}, &buf)
	_ = parent.With(String("child", "yes"))

	parent.Info("parent only")
	assert.NotContains(t, buf.String(), "child")
}

func TestZeroAndNopLoggers(t *testing.T) {
	var zero Logger
	assert.True(t, zero.IsZero())
	assert.False(t, Nop().IsZero())

	assert.NotPanics(t, func() {
		zero.Error("dropped", Bool("ok", false))
		Nop().Warn("dropped", Duration("d", 0), Any("v", struct{}{}))
	})
}

func TestDurationAndAnyFields(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(Config{}, &buf).Info("polling",
		Duration("interval", 1500*time.Millisecond),
		Any("user_ids", []int64{2, 4}))

	out := buf.String()
	assert.Contains(t, out, `"interval":1500`)
	assert.Contains(t, out, `"user_ids":[2,4]`)
}
