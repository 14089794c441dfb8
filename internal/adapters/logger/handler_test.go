package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sprout/internal/adapters/logger"
)

func newHandlerLogger(t *testing.T, level slog.Level) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level})), buf
}

type specID string

func (s specID) LogValue() slog.Value {
	return slog.StringValue("env-" + string(s))
}

func TestPrettyHandler_Attrs(t *testing.T) {
	tests := []struct {
		name string
		log  func(*slog.Logger)
		want string
	}{
		{
			name: "record attrs",
			log:  func(l *slog.Logger) { l.Info("cache hit", "spec", "abc123", "inputs", 4) },
			want: "cache hit spec=abc123 inputs=4\n",
		},
		{
			name: "values with spaces are quoted",
			log:  func(l *slog.Logger) { l.Warn("unreadable subdirectory", "dir", "/home/me/My Project/web") },
			want: "! unreadable subdirectory dir=\"/home/me/My Project/web\"\n",
		},
		{
			name: "empty value is quoted",
			log:  func(l *slog.Logger) { l.Info("no shell", "SHELL", "") },
			want: "no shell SHELL=\"\"\n",
		},
		{
			name: "handler attrs come first",
			log:  func(l *slog.Logger) { l.With("phase", "build").Error("nix failed", "code", 1) },
			want: "✗ nix failed phase=build code=1\n",
		},
		{
			name: "nested groups",
			log: func(l *slog.Logger) {
				l.WithGroup("build").With("tool", "nix").WithGroup("env").Info("realized", "vars", 12)
			},
			want: "realized build.tool=nix build.env.vars=12\n",
		},
		{
			name: "group values are flattened",
			log: func(l *slog.Logger) {
				l.Info("platform", slog.Group("system", "os", "linux", "arch", "amd64"))
			},
			want: "platform system.os=linux system.arch=amd64\n",
		},
		{
			name: "log valuers are resolved",
			log:  func(l *slog.Logger) { l.Info("staged", "id", specID("42")) },
			want: "staged id=env-42\n",
		},
		{
			name: "debug is indented",
			log:  func(l *slog.Logger) { l.Debug("forwarding SIGINT", "pid", 7) },
			want: "  forwarding SIGINT pid=7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newHandlerLogger(t, slog.LevelDebug)
			tt.log(l)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_SiblingsDoNotShareGroups(t *testing.T) {
	l, buf := newHandlerLogger(t, slog.LevelInfo)

	base := l.WithGroup("a")
	base.WithGroup("b").Info("first", "k", 1)
	base.WithGroup("c").Info("second", "k", 2)

	assert.Equal(t, "first a.b.k=1\nsecond a.c.k=2\n", buf.String())
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := logger.NewPrettyHandler(&bytes.Buffer{}, nil)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
