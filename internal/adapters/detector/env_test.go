package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sprout/internal/adapters/detector"
)

func TestIsCI(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "true", want: true},
		{value: "1", want: true},
		{value: "false", want: false},
		{value: "", want: false},
	}

	for _, tt := range tests {
		t.Run("CI="+tt.value, func(t *testing.T) {
			t.Setenv("CI", tt.value)
			assert.Equal(t, tt.want, detector.IsCI())
			if tt.want {
				assert.Equal(t, detector.ModeLinear, detector.DetectEnvironment())
			}
		})
	}
}

func TestEnvironment_Mode(t *testing.T) {
	tests := []struct {
		name        string
		env         detector.Environment
		mode        detector.OutputMode
		interactive bool
	}{
		{name: "terminal", env: detector.Environment{StdoutTTY: true, StdinTTY: true}, mode: detector.ModeTUI, interactive: true},
		{name: "ci terminal", env: detector.Environment{StdoutTTY: true, StdinTTY: true, CI: true}, mode: detector.ModeLinear},
		{name: "piped stdout", env: detector.Environment{StdinTTY: true}, mode: detector.ModeLinear},
		{name: "piped stdin", env: detector.Environment{StdoutTTY: true}, mode: detector.ModeTUI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mode, tt.env.Mode())
			assert.Equal(t, tt.interactive, tt.env.Interactive())
		})
	}
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		auto detector.OutputMode
		flag string
		want detector.OutputMode
	}{
		{auto: detector.ModeTUI, flag: "auto", want: detector.ModeTUI},
		{auto: detector.ModeLinear, flag: "", want: detector.ModeLinear},
		{auto: detector.ModeLinear, flag: "tui", want: detector.ModeTUI},
		{auto: detector.ModeTUI, flag: "linear", want: detector.ModeLinear},
		{auto: detector.ModeTUI, flag: "ci", want: detector.ModeLinear},
		{auto: detector.ModeTUI, flag: "bogus", want: detector.ModeTUI},
	}

	for _, tt := range tests {
		t.Run(tt.auto.String()+"/"+tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveMode(tt.auto, tt.flag))
		})
	}
}
