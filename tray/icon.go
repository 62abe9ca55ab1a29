package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"
)

const iconSize = 32

var (
	iconOnce sync.Once
	iconData []byte
)

// Icon returns the tray icon as PNG: a sun whose right half is shaded.
func Icon() []byte {
	iconOnce.Do(func() {
		iconData = renderIcon(iconSize)
	})
	return iconData
}

func renderIcon(size int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	light := color.NRGBA{R: 0xf5, G: 0xc5, B: 0x42, A: 0xff}
	dark := color.NRGBA{R: 0x3a, G: 0x3f, B: 0x4b, A: 0xff}

	c := float64(size-1) / 2
	disc := float64(size) * 0.28
	rayIn, rayOut := float64(size)*0.36, float64(size)*0.48
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			r := math.Hypot(dx, dy)
			fill := light
			if dx > 0 {
				fill = dark
			}
			switch {
			case r <= disc:
				img.SetNRGBA(x, y, fill)
			case r >= rayIn && r <= rayOut && onRay(dx, dy):
				img.SetNRGBA(x, y, fill)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// onRay reports whether the direction (dx, dy) lies within one of eight rays.
func onRay(dx, dy float64) bool {
	angle := math.Atan2(dy, dx)
	step := math.Pi / 4
	off := math.Mod(math.Abs(angle), step)
	return off < 0.18 || step-off < 0.18
}
