package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// capture points the global logger at a buffer for the duration of a test.
func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: level, Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info", Format: "json"}) })
	return &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"INFO":     zerolog.InfoLevel,
		"":         zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, "warn")

	Info().Msg("hidden")
	Warn().Str("component", "test").Msg("shown")

	got := lines(t, buf)
	if len(got) != 1 {
		t.Fatalf("Expected 1 line, got %d: %s", len(got), buf.String())
	}
	if got[0]["message"] != "shown" || got[0]["component"] != "test" {
		t.Errorf("Unexpected log line: %v", got[0])
	}
}

func TestGinLoggerLevels(t *testing.T) {
	buf := capture(t, "info")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinLogger())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok?x=1", "/missing", "/boom"} {
		req, _ := http.NewRequest("GET", path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := lines(t, buf)
	if len(got) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(got))
	}
	wantLevels := []string{"info", "warn", "error"}
	for i, line := range got {
		if line["level"] != wantLevels[i] {
			t.Errorf("line %d: expected level %s, got %v", i, wantLevels[i], line["level"])
		}
	}
	if got[0]["path"] != "/ok?x=1" || got[0]["method"] != "GET" {
		t.Errorf("Unexpected request fields: %v", got[0])
	}
}

func TestGormWriter(t *testing.T) {
	buf := capture(t, "info")

	GormWriter().Printf("slow query %s\n", "SELECT 1")

	got := lines(t, buf)
	if len(got) != 1 || got[0]["component"] != "gorm" || got[0]["message"] != "slow query SELECT 1" {
		t.Errorf("Unexpected gorm log: %s", buf.String())
	}
}
