package palette

import (
	"image"

	"golang.org/x/image/draw"
)

// MaxDimension is the longest image side fed to clustering. Larger uploads
// are downscaled first so the pixel sample stays bounded.
const MaxDimension = 1024

// Downscale returns img scaled so that its longer side equals MaxDimension,
// preserving aspect ratio. Images already within bounds are returned as-is.
func Downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= MaxDimension && height <= MaxDimension {
		return img
	}

	var newWidth, newHeight int
	if width >= height {
		newWidth = MaxDimension
		newHeight = height * MaxDimension / width
	} else {
		newHeight = MaxDimension
		newWidth = width * MaxDimension / height
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// SamplePixels flattens an image into the pixel triples the clusterer
// consumes, in row-major order so centroid seeding is deterministic.
func SamplePixels(img image.Image) []Pixel {
	bounds := img.Bounds()
	pixels := make([]Pixel, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels = append(pixels, Pixel{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
			})
		}
	}
	return pixels
}
