package extraction

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"

	"asimetric/internal/models"
)

// LoadFrames reads every PNG or JPEG file in dir as one frame of a time
// series, ordered by the number embedded in each filename.
//
// If every frame is grayscale the result is a monochrome [1, H, W, N] stack,
// otherwise a colour [3, H, W, N] stack. 16-bit images keep their full range;
// 8-bit images produce values in [0, 255]. All frames must share dimensions.
func LoadFrames(dir string) (models.RawStack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return models.RawStack{}, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !entry.IsDir() && (ext == ".png" || ext == ".jpg" || ext == ".jpeg") {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return models.RawStack{}, fmt.Errorf("no PNG or JPEG frames found in %s", dir)
	}

	// Frame order follows the capture number in the filename
	sort.SliceStable(files, func(i, j int) bool {
		return extractNumber(files[i]) < extractNumber(files[j])
	})

	frames := make([]image.Image, len(files))
	colour := false
	for i, name := range files {
		img, err := imaging.Open(filepath.Join(dir, name))
		if err != nil {
			return models.RawStack{}, fmt.Errorf("failed to load frame %s: %w", name, err)
		}
		if i > 0 && img.Bounds().Size() != frames[0].Bounds().Size() {
			return models.RawStack{}, fmt.Errorf("frame %s is %v, expected %v",
				name, img.Bounds().Size(), frames[0].Bounds().Size())
		}
		if !isGray(img) {
			colour = true
		}
		frames[i] = img
	}

	return framesToStack(frames, colour), nil
}

func framesToStack(frames []image.Image, colour bool) models.RawStack {
	bounds := frames[0].Bounds()
	w, h, n := bounds.Dx(), bounds.Dy(), len(frames)

	channels := 1
	if colour {
		channels = 3
	}
	shape := []int{channels, h, w, n}
	data := make([]float64, channels*h*w*n)

	for f, img := range frames {
		shift := uint32(8)
		if is16Bit(img) {
			shift = 0
		}
		b := img.Bounds()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var px [3]uint32
				px[0], px[1], px[2], _ = img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				for c := 0; c < channels; c++ {
					data[((c*h+y)*w+x)*n+f] = float64(px[c] >> shift)
				}
			}
		}
	}

	return models.RawStack{Shape: shape, Data: data}
}

func isGray(img image.Image) bool {
	m := img.ColorModel()
	return m == color.GrayModel || m == color.Gray16Model
}

func is16Bit(img image.Image) bool {
	switch img.ColorModel() {
	case color.Gray16Model, color.RGBA64Model, color.NRGBA64Model:
		return true
	}
	return false
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	numStr := ""
	for _, c := range base {
		if c >= '0' && c <= '9' {
			numStr += string(c)
		}
	}

	if numStr != "" {
		num, err := strconv.Atoi(numStr)
		if err == nil {
			return num
		}
	}
	return 0
}

// LoadSkymap reads a skymap from a YAML file.
func LoadSkymap(path string) (*models.Skymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading skymap file: %w", err)
	}

	skymap := &models.Skymap{}
	if err := yaml.Unmarshal(data, skymap); err != nil {
		return nil, fmt.Errorf("error parsing skymap file: %w", err)
	}
	if err := skymap.Check(); err != nil {
		return nil, fmt.Errorf("skymap %s: %w", path, err)
	}
	return skymap, nil
}

// SaveSkymap writes a skymap to a YAML file.
func SaveSkymap(skymap *models.Skymap, path string) error {
	data, err := yaml.Marshal(skymap)
	if err != nil {
		return fmt.Errorf("error marshaling skymap: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing skymap file: %w", err)
	}
	return nil
}
