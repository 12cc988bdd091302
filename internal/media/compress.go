package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// CompressOptions bounds the output image. Zero values take the defaults.
type CompressOptions struct {
	MaxWidth  int
	MaxHeight int
	// Quality is the JPEG quality in (0, 1]
	Quality float64
}

// DefaultCompressOptions is 800x600 at 0.85
var DefaultCompressOptions = CompressOptions{MaxWidth: 800, MaxHeight: 600, Quality: 0.85}

func (o CompressOptions) withDefaults() CompressOptions {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultCompressOptions.MaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultCompressOptions.MaxHeight
	}
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = DefaultCompressOptions.Quality
	}
	return o
}

// fitWithin scales w x h down to fit maxW x maxH keeping the aspect ratio.
// Images already inside the bounds keep their size.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if scale >= 1 {
		return w, h
	}
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// Compress decodes a JPEG, PNG or WEBP image, shrinks it to fit the bounds and
// re-encodes it as JPEG on a white background
func Compress(f File, opts CompressOptions) (File, error) {
	opts = opts.withDefaults()

	src, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return File{}, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), opts.MaxWidth, opts.MaxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var out bytes.Buffer
	quality := int(math.Round(opts.Quality * 100))
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: quality}); err != nil {
		return File{}, fmt.Errorf("encode jpeg: %w", err)
	}

	name := f.Name
	if name != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}
	return File{Name: name, ContentType: "image/jpeg", Data: out.Bytes()}, nil
}
