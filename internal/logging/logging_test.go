package logging_test

import (
	"bytes"
	"testing"

	"github.com/jrsteele09/news-admin/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Options{Level: "warn", Out: &buf})

	l.Info().Msg("hidden")
	l.Warn().Str("section", "news").Msg("shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"section":"news"`)
	require.Contains(t, out, `"level":"warn"`)
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Options{Level: "loud", Out: &buf})

	l.Debug().Msg("debug")
	l.Info().Msg("info")

	require.NotContains(t, buf.String(), `"message":"debug"`)
	require.Contains(t, buf.String(), `"message":"info"`)
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Options{Level: "info", Pretty: true, Out: &buf})
	l.Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.NotContains(t, buf.String(), `"message"`)
}
