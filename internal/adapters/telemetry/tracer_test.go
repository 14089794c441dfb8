package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sprout/internal/adapters/telemetry"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/sprout/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
}

func TestOTelTracer_ForwardsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var spanID string
	gomock.InOrder(
		renderer.EXPECT().OnPhaseStart(gomock.Any(), "build", gomock.Any()).
			Do(func(id, _ string, _ time.Time) { spanID = id }),
		renderer.EXPECT().OnPhaseLog(gomock.Any(), "first"),
		renderer.EXPECT().OnPhaseLog(gomock.Any(), "second"),
		renderer.EXPECT().OnPhaseLog(gomock.Any(), "partial"),
		renderer.EXPECT().OnPhaseComplete(gomock.Any(), gomock.Any(), nil).
			Do(func(id string, _ time.Time, _ error) { assert.Equal(t, spanID, id) }),
	)

	tracer := telemetry.NewOTelTracer(renderer)
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "build", ports.WithAttribute("spec", "abc"))
	_, err := span.Write([]byte("first\nsecond\npartial"))
	require.NoError(t, err)
	span.End()
}

func TestOTelTracer_RecordErrorFailsPhase(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	renderer.EXPECT().OnPhaseStart(gomock.Any(), "build", gomock.Any())
	renderer.EXPECT().OnPhaseComplete(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ time.Time, err error) {
			require.Error(t, err)
			assert.Equal(t, "nix exited with status 1", err.Error())
		})

	tracer := telemetry.NewOTelTracer(renderer)
	_, span := tracer.Start(context.Background(), "build")
	span.RecordError(errors.New("nix exited with status 1"))
	span.SetAttribute("exit_code", 1)
	span.End()
}

func TestOTelTracer_NilRenderer(t *testing.T) {
	tracer := telemetry.NewOTelTracer(nil)

	_, span := tracer.Start(context.Background(), "detect")
	n, err := span.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	span.End()
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span")
	assert.Equal(t, ctx, got)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	span.End()
}
