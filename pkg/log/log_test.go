package log

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForContext_AddsCorrelationID(t *testing.T) {
	buf := &bytes.Buffer{}
	Configure("info", true)
	SetOutput(buf)
	t.Cleanup(func() {
		SetupTestLogger()
		SetOutput(os.Stderr)
	})

	ctx, correlationID := WithCorrelationID(context.Background())
	ForContext(ctx).WithField("funnel_ref", "AbC123xy").Info("funnel: cta built")

	assert.Contains(t, buf.String(), correlationID)
	assert.Contains(t, buf.String(), `"funnel_ref":"AbC123xy"`)
	assert.Equal(t, correlationID, GetCorrelationID(ctx))
}

func TestConfigure_InvalidLevelFallsBackToInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	Configure("verbose", false)
	SetOutput(buf)
	t.Cleanup(SetupTestLogger)

	L.Debug("hidden")
	L.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestGetCorrelationID_Empty(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
}
