package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound1(t *testing.T) {
	assert.Equal(t, 42.3, Round1(42.34))
	assert.Equal(t, 42.4, Round1(42.35))
	assert.Equal(t, 42.0, Round1(42.0))
	assert.Equal(t, -1.3, Round1(-1.25))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 301.46, Round2(301.456))
	assert.Equal(t, 287.13, Round2(287.134))
	assert.Equal(t, 0.0, Round2(0))
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 50.0, PercentChange(150, 100))
	assert.Equal(t, -25.0, PercentChange(75, 100))
	assert.Equal(t, 0.0, PercentChange(100, 100))
	assert.Equal(t, 0.0, PercentChange(100, 0))
	assert.Equal(t, 33.33, PercentChange(120, 90))
}
