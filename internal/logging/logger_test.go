package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	Info().Msg("hidden")
	Warn().Str("component", "catalog").Msg("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"component":"catalog"`)
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	Ctx(context.Background()).Info().Msg("from global")
	assert.Contains(t, buf.String(), "from global")

	reqLogger := Logger().With().Str("request_id", "abc").Logger()
	ctx := WithContext(context.Background(), reqLogger)
	Ctx(ctx).Info().Msg("from request")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}
