package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	initLogger(&buf, "brainstroke-risk", "production", "debug")
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	LoggerFromContext(context.Background()).Debug().Str("assessment_id", "a-1").Msg("scored")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "brainstroke-risk", entry["service"])
	assert.Equal(t, "a-1", entry["assessment_id"])
	assert.Equal(t, "debug", entry["level"])
	assert.NotContains(t, entry, "trace_id")
}

func TestInitLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	initLogger(&buf, "svc", "production", "loud")
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	GetLogger().Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestMetricHelpers_NilSafe(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/health", 200, 0)
		RecordDBMetric(ctx, nil, "insert", 0)
		RecordCacheHit(ctx, nil, "history")
		RecordCacheMiss(ctx, nil, "history")
		RecordAssessment(ctx, nil, "Low", 13, false)
	})

	metrics, err := InitMetrics()
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		RecordAssessment(ctx, metrics, "High", 58, true)
	})
}
