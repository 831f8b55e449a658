package labcolor

import "testing"

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestRoundTripWithinOnePerChannel(t *testing.T) {
	samples := [][3]uint8{
		{0, 0, 0}, {255, 255, 255}, {128, 128, 128},
		{255, 0, 0}, {0, 255, 0}, {0, 0, 255},
		{12, 200, 77}, {90, 90, 91}, {255, 128, 0},
	}
	for _, s := range samples {
		lab := FromRGB(s[0], s[1], s[2])
		r, g, b := lab.ToRGB()
		if absInt(int(r)-int(s[0])) > 1 || absInt(int(g)-int(s[1])) > 1 || absInt(int(b)-int(s[2])) > 1 {
			t.Fatalf("round trip for %v drifted beyond 1 per channel, got (%d,%d,%d)", s, r, g, b)
		}
	}
}

func TestDeltaEZeroForIdenticalColors(t *testing.T) {
	c := FromRGB(100, 150, 200)
	if DeltaE(c, c) != 0 {
		t.Fatalf("expected zero distance for identical colors, got %v", DeltaE(c, c))
	}
}

func TestDeltaEIncreasesWithDivergence(t *testing.T) {
	base := FromRGB(50, 50, 50)
	near := FromRGB(55, 50, 50)
	far := FromRGB(250, 50, 50)
	if !(DeltaE(base, near) < DeltaE(base, far)) {
		t.Fatal("expected DeltaE to grow with color divergence")
	}
}

func TestBlackAndWhiteLightnessExtremes(t *testing.T) {
	black := FromRGB(0, 0, 0)
	white := FromRGB(255, 255, 255)
	if black.L > 1 {
		t.Fatalf("expected black to have L near 0, got %v", black.L)
	}
	if white.L < 99 {
		t.Fatalf("expected white to have L near 100, got %v", white.L)
	}
}
