// Package palette extracts dominant colors from images using bounded
// k-means clustering over sampled pixels.
package palette

import "fmt"

// Pixel is one sampled color, channel intensities on the 0-255 scale.
type Pixel struct {
	R, G, B uint8
}

// Near-white and near-black pixels are treated as background, not garment
// color, and are dropped before clustering.
const (
	whiteThreshold = 242
	blackThreshold = 15
)

// Iterations is the fixed k-means iteration count. A fixed count bounds
// worst-case latency deterministically; palette extraction tolerates the
// approximate result.
const Iterations = 10

type centroid struct {
	r, g, b float64
}

// DominantColors clusters the sampled pixels into k groups and returns the
// k cluster means as "#rrggbb" strings. The run is fully deterministic:
// centroids seed from the first k surviving pixels, no randomization.
//
// When background filtering leaves fewer than k pixels (or none at all),
// the unseeded centroids keep their zero value and are formatted as-is;
// the function never fails on degenerate input.
func DominantColors(pixels []Pixel, k int) []string {
	if k <= 0 {
		return []string{}
	}

	survivors := filterBackground(pixels)

	centroids := make([]centroid, k)
	for i := 0; i < k && i < len(survivors); i++ {
		centroids[i] = centroid{
			r: float64(survivors[i].R),
			g: float64(survivors[i].G),
			b: float64(survivors[i].B),
		}
	}

	assignments := make([]int, len(survivors))
	for iter := 0; iter < Iterations; iter++ {
		// Assignment step: nearest centroid by squared Euclidean distance.
		for i, p := range survivors {
			assignments[i] = nearestCentroid(p, centroids)
		}

		// Update step: recompute each centroid as the mean of its pixels.
		// A centroid with no assigned pixels keeps its previous value.
		sums := make([]centroid, k)
		counts := make([]int, k)
		for i, p := range survivors {
			c := assignments[i]
			sums[c].r += float64(p.R)
			sums[c].g += float64(p.G)
			sums[c].b += float64(p.B)
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			n := float64(counts[c])
			centroids[c] = centroid{r: sums[c].r / n, g: sums[c].g / n, b: sums[c].b / n}
		}
	}

	colors := make([]string, k)
	for i, c := range centroids {
		colors[i] = formatHex(c)
	}
	return colors
}

func filterBackground(pixels []Pixel) []Pixel {
	survivors := make([]Pixel, 0, len(pixels))
	for _, p := range pixels {
		avg := (int(p.R) + int(p.G) + int(p.B)) / 3
		if avg > whiteThreshold || avg < blackThreshold {
			continue
		}
		survivors = append(survivors, p)
	}
	return survivors
}

func nearestCentroid(p Pixel, centroids []centroid) int {
	best := 0
	bestDist := distSq(p, centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := distSq(p, centroids[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func distSq(p Pixel, c centroid) float64 {
	dr := float64(p.R) - c.r
	dg := float64(p.G) - c.g
	db := float64(p.B) - c.b
	return dr*dr + dg*dg + db*db
}

func formatHex(c centroid) string {
	return fmt.Sprintf("#%02x%02x%02x", roundChannel(c.r), roundChannel(c.g), roundChannel(c.b))
}

func roundChannel(v float64) uint8 {
	r := int(v + 0.5)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
