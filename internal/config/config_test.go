package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("FOODSHOP_TEST_KEY", "value")
	assert.Equal(t, "value", getEnv("FOODSHOP_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnv("FOODSHOP_TEST_MISSING", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("FOODSHOP_TEST_INT", "2500")
	assert.Equal(t, 2500, getEnvInt("FOODSHOP_TEST_INT", 5000))
	assert.Equal(t, 5000, getEnvInt("FOODSHOP_TEST_INT_MISSING", 5000))
}
