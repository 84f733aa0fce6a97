package compose

import "math"

// EMUPerInch is the number of EMUs (English Metric Units) per inch.
// Office documents use EMU for internal coordinates.
const EMUPerInch = 914400

// EMUPerPixel is the number of EMUs per pixel at 96 DPI.
// 914400 / 96 = 9525.
const EMUPerPixel = 9525

// PixelsPerInch is the raster density used when baking images for slides.
const PixelsPerInch = 96

// InchesToEMU converts inches to EMU, rounding to the nearest unit.
func InchesToEMU(in float64) int64 {
	return int64(math.Round(in * EMUPerInch))
}

// EMUToPixels converts EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// InchesToPixels converts inches to whole pixels at 96 DPI.
func InchesToPixels(in float64) int {
	return int(math.Round(in * PixelsPerInch))
}
