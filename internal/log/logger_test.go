package log_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/log"
)

func TestLevelFollowsEnvironment(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, log.New("development").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, log.New("production").GetLevel())
}

func TestForTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	tagged := log.For(logger, "session")
	tagged.Info().Msg("restored")

	assert.Contains(t, buf.String(), `"component":"session"`)
	assert.Contains(t, buf.String(), `"message":"restored"`)
}

func TestForKeepsParentFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("env", "development").Logger()

	tagged := log.For(logger, "api")
	tagged.Info().Msg("request")

	assert.Contains(t, buf.String(), `"env":"development"`)
	assert.Contains(t, buf.String(), `"component":"api"`)
}
