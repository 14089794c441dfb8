package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/sprout/internal/ui/output"
	"go.trai.ch/sprout/internal/ui/style"
)

// PrettyHandler is a slog.Handler writing one colored line per record:
// a level glyph, the message, then key=value attributes.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	// attrs holds the handler's attributes, already formatted.
	attrs  string
	groups []string
}

// NewPrettyHandler creates a PrettyHandler writing to w, or stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

type levelStyle struct {
	glyph string
	color lipgloss.Color
	faint bool
}

func styleFor(level slog.Level) levelStyle {
	switch {
	case level >= slog.LevelError:
		return levelStyle{glyph: style.Cross + " ", color: style.Red}
	case level >= slog.LevelWarn:
		return levelStyle{glyph: style.Warning + " ", color: style.Yellow}
	case level < slog.LevelInfo:
		return levelStyle{glyph: "  ", color: style.Slate, faint: true}
	default:
		return levelStyle{color: style.Slate}
	}
}

// Handle writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	s := styleFor(r.Level)

	var b strings.Builder
	b.WriteString(s.glyph + r.Message)
	b.WriteString(h.attrs)
	prefix := groupPrefix(h.groups)
	r.Attrs(func(attr slog.Attr) bool {
		appendAttr(&b, prefix, attr)
		return true
	})

	styled := h.out.String(b.String()).Foreground(h.out.Color(string(s.color)))
	if s.faint {
		styled = styled.Faint()
	}
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a Handler that appends attrs to every record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var b strings.Builder
	b.WriteString(h.attrs)
	prefix := groupPrefix(h.groups)
	for _, attr := range attrs {
		appendAttr(&b, prefix, attr)
	}

	next := *h
	next.attrs = b.String()
	return &next
}

// WithGroup returns a Handler that qualifies later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	next := *h
	next.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &next
}

func groupPrefix(groups []string) string {
	if len(groups) == 0 {
		return ""
	}
	return strings.Join(groups, ".") + "."
}

// appendAttr writes " key=value". Group values are flattened into dotted
// keys; empty attributes are dropped.
func appendAttr(b *strings.Builder, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()

	if attr.Value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner += attr.Key + "."
		}
		for _, a := range attr.Value.Group() {
			appendAttr(b, inner, a)
		}
		return
	}
	if attr.Equal(slog.Attr{}) {
		return
	}

	b.WriteString(" " + prefix + attr.Key + "=" + formatValue(attr.Value.String()))
}

// formatValue quotes values a reader could not split back into one token,
// such as project paths containing spaces.
func formatValue(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\n\"=") {
		return strconv.Quote(v)
	}
	return v
}
