package controller

import "github.com/dylan-ru/screen-dimmer/models"

// AlphaForBrightness converts a brightness level into overlay opacity.
// 100 gives a fully transparent overlay and 0 gives maxAlpha; values in
// between are linear.
func AlphaForBrightness(brightness int, maxAlpha float64) float64 {
	b := models.ClampBrightness(brightness)
	return maxAlpha * float64(models.MaxBrightness-b) / float64(models.MaxBrightness)
}
