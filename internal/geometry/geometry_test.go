package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldResize_Decrease(t *testing.T) {
	cur := Dim(400, 300)
	tests := []struct {
		name   string
		target Dimension
		want   bool
	}{
		{"larger both axes", Dim(500, 400), false},
		{"larger width only", Dim(500, 200), true},
		{"larger height only", Dim(300, 400), true},
		{"equal", Dim(400, 300), true},
		{"equal width larger height", Dim(400, 301), true},
		{"smaller both", Dim(100, 100), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldResize(cur, tt.target, Decrease))
		})
	}
}

func TestShouldResize_Increase(t *testing.T) {
	cur := Dim(400, 300)
	tests := []struct {
		name   string
		target Dimension
		want   bool
	}{
		{"smaller both axes", Dim(100, 100), false},
		{"smaller width only", Dim(100, 500), true},
		{"smaller height only", Dim(500, 100), true},
		{"equal", Dim(400, 300), true},
		{"larger both", Dim(800, 600), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldResize(cur, tt.target, Increase))
		})
	}
}

// Exhaustive check of the skip rule over a small grid of sizes.
func TestShouldResize_Grid(t *testing.T) {
	for cw := 1; cw <= 6; cw++ {
		for ch := 1; ch <= 6; ch++ {
			for tw := 1; tw <= 6; tw++ {
				for th := 1; th <= 6; th++ {
					cur, tgt := Dim(cw, ch), Dim(tw, th)
					if got, want := ShouldResize(cur, tgt, Decrease), !(tw > cw && th > ch); got != want {
						t.Fatalf("Decrease %v -> %v: got %v, want %v", cur, tgt, got, want)
					}
					if got, want := ShouldResize(cur, tgt, Increase), !(tw < cw && th < ch); got != want {
						t.Fatalf("Increase %v -> %v: got %v, want %v", cur, tgt, got, want)
					}
					if !ShouldResize(cur, tgt, Both) {
						t.Fatalf("Both %v -> %v: got false", cur, tgt)
					}
				}
			}
		}
	}
}

func TestParseBehavior(t *testing.T) {
	tests := []struct {
		in      string
		want    Behavior
		wantErr bool
	}{
		{"", Both, false},
		{"both", Both, false},
		{"Decrease", Decrease, false},
		{" increase ", Increase, false},
		{"resize_both", Both, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBehavior(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Behavior {
	t.Helper()
	b, err := ParseBehavior(s)
	require.NoError(t, err)
	return b
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		name     string
		src, box Dimension
		want     Dimension
	}{
		{"same aspect downscale", Dim(4000, 3000), Dim(800, 600), Dim(800, 600)},
		{"wide source", Dim(1000, 500), Dim(300, 300), Dim(300, 150)},
		{"tall source", Dim(500, 1000), Dim(300, 300), Dim(150, 300)},
		{"upscale", Dim(100, 50), Dim(400, 400), Dim(400, 200)},
		{"rounding", Dim(3, 2), Dim(2, 2), Dim(2, 1)},
		{"minimum one pixel", Dim(1000, 1), Dim(10, 10), Dim(10, 1)},
		{"invalid source", Dim(0, 10), Dim(10, 10), Dimension{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FitSize(tt.src, tt.box))
		})
	}
}

func TestPadding(t *testing.T) {
	tests := []struct {
		name            string
		current, target Dimension
		wantX, wantY    int
	}{
		{"both axes", Dim(100, 50), Dim(200, 100), 50, 25},
		{"odd difference truncates", Dim(100, 50), Dim(103, 55), 1, 2},
		{"width already wider", Dim(300, 50), Dim(200, 100), 0, 25},
		{"no growth", Dim(10, 10), Dim(10, 10), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Padding(tt.current, tt.target)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}
