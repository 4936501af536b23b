package cli

import (
	"testing"

	"github.com/ardnew/tuplet/log"
)

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() {
		log.Config(
			log.WithLevel(log.DefaultLevel),
			log.WithFormat(log.DefaultFormat),
			log.WithCaller(log.DefaultCaller),
			log.WithPretty(log.DefaultPretty),
		)
	})

	tests := []struct {
		name   string
		args   []string
		want   logConfig
		prefix logConfig
	}{
		{
			name: "separate_values",
			args: []string{"run", "--log-level", "debug", "--log-format", "json", "x.tpl"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "assigned_values",
			args: []string{"--log-level=trace", "--log-caller"},
			want: logConfig{Level: "trace", Caller: true},
		},
		{
			name:   "negated_toggle",
			args:   []string{"--no-log-pretty"},
			prefix: logConfig{Pretty: true},
			want:   logConfig{Pretty: false},
		},
		{
			name:   "negated_assigned_false",
			args:   []string{"--no-log-pretty=false"},
			prefix: logConfig{Pretty: false},
			want:   logConfig{Pretty: true},
		},
		{
			name: "stops_at_terminator",
			args: []string{"--", "--log-caller"},
			want: logConfig{},
		},
		{
			name: "ignores_other_flags",
			args: []string{"--max-depth", "5", "--logx"},
			want: logConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.prefix
			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
