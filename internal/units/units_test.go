package units

import (
	"math"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"length", FormatLength(Mpc), "1 Mpc"},
		{"energy", FormatEnergy(EeV), "1 EeV"},
		{"field", FormatField(NanoGauss), "1 nG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestHubbleDistance(t *testing.T) {
	// c/H0 is about 4.45 Gpc for H0 = 67.3 km/s/Mpc.
	if got := HubbleDistance / Gpc; math.Abs(got-4.45) > 0.01 {
		t.Errorf("HubbleDistance = %.3f Gpc, want ~4.45", got)
	}
}
