package hardware

import (
	"testing"

	"github.com/dylan-ru/screen-dimmer/models"
)

func TestPremultipliedARGB(t *testing.T) {
	tests := []struct {
		c     models.Color
		alpha float64
		want  uint32
	}{
		{models.Black, 0, 0x00000000},
		{models.Black, 1, 0xff000000},
		{models.Color{R: 255, G: 255, B: 255}, 1, 0xffffffff},
		{models.Color{R: 255, G: 128, B: 0}, 0.5, 0x80804000},
		{models.Color{R: 200}, -1, 0},
		{models.Color{B: 10}, 7, 0xff00000a},
	}
	for _, tt := range tests {
		if got := PremultipliedARGB(tt.c, tt.alpha); got != tt.want {
			t.Fatalf("PremultipliedARGB(%v, %v) = %#08x want %#08x", tt.c, tt.alpha, got, tt.want)
		}
	}
}

func TestOpaqueRGB(t *testing.T) {
	if got := OpaqueRGB(models.Color{R: 1, G: 2, B: 3}); got != 0x010203 {
		t.Fatalf("OpaqueRGB = %#06x want 0x010203", got)
	}
}
