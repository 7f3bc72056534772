package random

import (
	"testing"
	"time"
)

func TestRandomize(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		percent float64
		wantMin float64
		wantMax float64
	}{
		{
			name:    "1% randomization of 100",
			value:   100,
			percent: 1.0,
			wantMin: 99,
			wantMax: 101,
		},
		{
			name:    "5% randomization of 80",
			value:   80,
			percent: 5.0,
			wantMin: 76,
			wantMax: 84,
		},
		{
			name:    "0% randomization (no change)",
			value:   50,
			percent: 0,
			wantMin: 50,
			wantMax: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run multiple times to check range
			for i := 0; i < 100; i++ {
				result := Randomize(tt.value, tt.percent)

				if result < tt.wantMin || result > tt.wantMax {
					t.Errorf("Randomize(%v, %v) = %v, want range [%v, %v]",
						tt.value, tt.percent, result, tt.wantMin, tt.wantMax)
				}
			}
		})
	}
}

func TestJitter(t *testing.T) {
	base := 10 * time.Hour

	for i := 0; i < 100; i++ {
		got := Jitter(base, 10)
		if got < 9*time.Hour || got > 11*time.Hour {
			t.Errorf("Jitter(%v, 10) = %v, want within ±1h", base, got)
		}
		if got%time.Second != 0 {
			t.Errorf("Jitter(%v, 10) = %v, want whole seconds", base, got)
		}
	}

	if got := Jitter(time.Minute, 0); got != time.Minute {
		t.Errorf("Jitter without percent = %v, want %v", got, time.Minute)
	}
}
