package log

import (
	"testing"
	"time"
)

func TestConfig_Options(t *testing.T) {
	c := config{}.with(
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelTrace || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("with() = level %v format %v caller %t pretty %t",
			c.level, c.format, c.caller, c.pretty)
	}

	// Later options win.
	if c = c.with(WithLevel(LevelError)); c.level != LevelError {
		t.Errorf("level = %v, want %v", c.level, LevelError)
	}

	clone := c.clone(WithFormat(FormatText))
	if clone.mutex == c.mutex || c.format != FormatJSON || clone.format != FormatText {
		t.Error("clone() shares state with the original")
	}
}

func TestWithTimeLayout(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2026-03-14T15:09:26Z"},
		{"rfc-3339-nano", "2026-03-14T15:09:26.535897932Z"},
		{"Kitchen", "3:09PM"},
		{"ms", "Mar 14 15:09:26.535"},
		{"2006/01/02", "2026/03/14"},
		{"none", ""},
		{"", ""},
		{" \t", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(at); got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for name := range Levels() {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for name := range Formats() {
		if got := ParseFormat(name).String(); got != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, got)
		}
	}

	if got := ParseFormat("xml"); got != DefaultFormat {
		t.Errorf("ParseFormat(xml) = %v, want %v", got, DefaultFormat)
	}
}
