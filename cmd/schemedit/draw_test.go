package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFlashPhaseCalculation verifies the phase logic for message flashing
func TestFlashPhaseCalculation(t *testing.T) {
	// Flash pattern: normal(0-125) -> inverted(125-250) -> normal(250-375) -> inverted(375-500) -> normal(500+)
	tests := []struct {
		elapsed      int64
		wantInverted bool
		description  string
	}{
		{-5, false, "clock skew - normal"},
		{0, false, "start of flash - normal"},
		{124, false, "end of phase 0 - normal"},
		{125, true, "start of phase 1 - inverted"},
		{249, true, "end of phase 1 - inverted"},
		{250, false, "start of phase 2 - normal"},
		{375, true, "start of phase 3 - inverted"},
		{499, true, "end of phase 3 - inverted"},
		{500, false, "after flash period - normal"},
		{1000, false, "long after flash - normal"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.wantInverted, flashInverted(tt.elapsed))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "AND", truncate("AND", 5))
	assert.Equal(t, "DF...", truncate("DFLIPFLOP", 5))
	assert.Equal(t, "DF", truncate("DFLIPFLOP", 2))
	assert.Equal(t, "", truncate("AND", 0))
}

func TestNearMultiple(t *testing.T) {
	assert.True(t, nearMultiple(40.5, 40, 1))
	assert.True(t, nearMultiple(-39.5, 40, 1))
	assert.False(t, nearMultiple(20, 40, 1))
}
