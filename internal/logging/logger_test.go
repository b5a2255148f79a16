package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriterFormats(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "json").Info("hello", "user_id", "u1")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"user_id":"u1"`) {
		t.Errorf("Expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	NewWithWriter(&buf, "console").Info("hello", "user_id", "u1")
	if !strings.Contains(buf.String(), "user_id=u1") {
		t.Errorf("Expected text output, got %q", buf.String())
	}
}
