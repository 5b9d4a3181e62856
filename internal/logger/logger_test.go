package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewJSON(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	log := New(&buf, "warn", "JSON")

	log.Info("dropped")
	log.Warn("kept", "plant_id", 3)

	var rec map[string]any
	c.Assert(json.Unmarshal(buf.Bytes(), &rec), qt.IsNil)
	c.Assert(rec["msg"], qt.Equals, "kept")
	c.Assert(rec["level"], qt.Equals, "WARN")
	c.Assert(rec["plant_id"], qt.Equals, float64(3))
}

func TestNewText(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("hello")
	c.Assert(buf.String(), qt.Contains, "level=DEBUG msg=hello")
}

func TestParseLevel(t *testing.T) {
	c := qt.New(t)
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	} {
		c.Assert(parseLevel(in), qt.Equals, want, qt.Commentf("input %q", in))
	}
}
