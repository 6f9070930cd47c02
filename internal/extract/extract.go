// Package extract picks a theme source color from an image by clustering
// its pixels and choosing the most prominent saturated cluster.
package extract

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"math"
	"math/rand"
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/thematic-dev/thematic/internal/material"
)

// LoadImage decodes an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TIFF.
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// SourceColor loads the image at path and returns its dominant color,
// suitable as a theme source.
func SourceColor(path string) (material.ARGB, error) {
	img, err := LoadImage(path)
	if err != nil {
		return 0, err
	}
	return DominantColor(img)
}

// DominantColor clusters the image's pixels and returns the centroid of the
// highest-scoring cluster. Score combines cluster size with saturation, so
// a vivid accent beats a slightly larger wash of gray.
func DominantColor(img image.Image) (material.ARGB, error) {
	if img == nil {
		return 0, fmt.Errorf("image cannot be nil")
	}

	pixels := samplePixels(img)
	if len(pixels) == 0 {
		return 0, fmt.Errorf("no pixels found in image")
	}

	centroids, weights := cluster(pixels, clusterCount)

	best := 0
	bestScore := -1.0
	for i, c := range centroids {
		score := weights[i] * (0.25 + saturation(c))
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	c := centroids[best]
	return material.ARGB(0xff000000 |
		uint32(clampByte(c.r))<<16 |
		uint32(clampByte(c.g))<<8 |
		uint32(clampByte(c.b))), nil
}

const (
	clusterCount  = 5
	maxIterations = 20
	convergence   = 2.0
	maxSamples    = 2000
)

// point is a position in RGB space.
type point struct {
	r, g, b float64
}

func (p point) distance(other point) float64 {
	dr := p.r - other.r
	dg := p.g - other.g
	db := p.b - other.b
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// saturation is the normalized chroma of a centroid, 0 for grays.
func saturation(p point) float64 {
	maxC := math.Max(p.r, math.Max(p.g, p.b))
	minC := math.Min(p.r, math.Min(p.g, p.b))
	if maxC == 0 {
		return 0
	}
	return (maxC - minC) / 255.0
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// samplePixels reads a bounded grid of pixels. Large images are subsampled
// to keep clustering fast.
func samplePixels(img image.Image) []point {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()

	step := 1
	if total > maxSamples {
		step = max(int(math.Sqrt(float64(total)/float64(maxSamples))), 1)
	}

	pixels := make([]point, 0, maxSamples)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels = append(pixels, point{
				r: float64(r >> 8),
				g: float64(g >> 8),
				b: float64(b >> 8),
			})
			if len(pixels) >= maxSamples {
				return pixels
			}
		}
	}
	return pixels
}

// cluster runs k-means over the pixels and returns the centroids with their
// normalized cluster sizes.
func cluster(pixels []point, k int) ([]point, []float64) {
	if k > len(pixels) {
		k = len(pixels)
	}

	centroids := seedCentroids(pixels, k)
	assignments := make([]int, len(pixels))

	for iter := 0; iter < maxIterations; iter++ {
		changed := 0
		for i, p := range pixels {
			nearest := nearestCentroid(p, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}
		if float64(changed)/float64(len(pixels)) < 0.01 {
			break
		}

		next := recenter(pixels, assignments, k)

		movement := 0.0
		for i := range centroids {
			movement += centroids[i].distance(next[i])
		}
		centroids = next

		if movement/float64(k) < convergence {
			break
		}
	}

	weights := make([]float64, k)
	for _, a := range assignments {
		weights[a]++
	}
	for i := range weights {
		weights[i] /= float64(len(assignments))
	}
	return centroids, weights
}

// seedCentroids picks initial centroids with the k-means++ rule: the first
// at random, each following one with probability proportional to its
// squared distance from the chosen set.
func seedCentroids(pixels []point, k int) []point {
	centroids := make([]point, 0, k)
	centroids = append(centroids, pixels[rand.Intn(len(pixels))])

	for len(centroids) < k {
		distances := make([]float64, len(pixels))
		total := 0.0
		for i, p := range pixels {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				if d := p.distance(c); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist * minDist
			total += distances[i]
		}

		if total == 0 {
			// Remaining pixels coincide with existing centroids.
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point{r: last.r + 0.1, g: last.g + 0.1, b: last.b + 0.1})
			continue
		}

		target := rand.Float64() * total
		cumulative := 0.0
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				centroids = append(centroids, pixels[i])
				break
			}
		}
	}
	return centroids
}

func nearestCentroid(p point, centroids []point) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, c := range centroids {
		if d := p.distance(c); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

func recenter(pixels []point, assignments []int, k int) []point {
	sums := make([]point, k)
	counts := make([]int, k)
	for i, p := range pixels {
		c := assignments[i]
		sums[c].r += p.r
		sums[c].g += p.g
		sums[c].b += p.b
		counts[c]++
	}

	centroids := make([]point, k)
	for i := range k {
		if counts[i] > 0 {
			centroids[i] = point{
				r: sums[i].r / float64(counts[i]),
				g: sums[i].g / float64(counts[i]),
				b: sums[i].b / float64(counts[i]),
			}
		} else {
			centroids[i] = pixels[rand.Intn(len(pixels))]
		}
	}
	return centroids
}
