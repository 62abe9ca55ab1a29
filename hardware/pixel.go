package hardware

import "github.com/dylan-ru/screen-dimmer/models"

// PremultipliedARGB packs color and alpha into a 32-bit ARGB pixel with the
// color channels premultiplied, which is what compositors expect from
// depth-32 windows.
func PremultipliedARGB(c models.Color, alpha float64) uint32 {
	a := alphaByte(alpha)
	r := uint32(c.R) * a / 255
	g := uint32(c.G) * a / 255
	b := uint32(c.B) * a / 255
	return a<<24 | r<<16 | g<<8 | b
}

// OpaqueRGB packs color for a 24-bit TrueColor visual.
func OpaqueRGB(c models.Color) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func alphaByte(alpha float64) uint32 {
	if alpha <= 0 {
		return 0
	}
	if alpha >= 1 {
		return 255
	}
	return uint32(alpha*255 + 0.5)
}
