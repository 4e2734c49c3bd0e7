package logging

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevelAndMode(t *testing.T) {
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		gin.SetMode(gin.DebugMode)
	})

	Setup("production", zerolog.WarnLevel)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	Setup("development", zerolog.DebugLevel)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
