// Package photo validates profile photos and shrinks them before upload.
package photo

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/mandapam/portal/internal/config"
)

var (
	ErrMissing         = errors.New("Profile photo is required")
	ErrTooLarge        = errors.New("Photo must be 30MB or smaller")
	ErrUnsupportedType = errors.New("Photo must be a JPEG, PNG, GIF or WebP image")
)

const (
	minQuality  = 40
	qualityStep = 10
	shrinkRatio = 0.8
	outputMIME  = "image/jpeg"
)

var allowed = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Accepted struct {
	MIME    string
	Preview string
}

type Optimized struct {
	Data    []byte
	MIME    string
	Width   int
	Height  int
	Quality int
}

func (o Optimized) Filename(base string) string {
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "photo"
	}
	return base + ".jpg"
}

type Optimizer struct {
	cfg config.Photo
}

func NewOptimizer(cfg config.Photo) *Optimizer {
	return &Optimizer{cfg: cfg}
}

// Accept checks size and type and returns the preview data URL.
func (o *Optimizer) Accept(u *Upload) (*Accepted, error) {
	if u == nil || len(u.Data) == 0 {
		return nil, ErrMissing
	}
	if o.cfg.MaxInputBytes > 0 && int64(len(u.Data)) > o.cfg.MaxInputBytes {
		return nil, ErrTooLarge
	}

	kind := detect(u)
	if !allowed[kind] {
		return nil, ErrUnsupportedType
	}

	return &Accepted{MIME: kind, Preview: Preview(kind, u.Data)}, nil
}

// Preview renders data as a data URL.
func Preview(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Optimize fits the image into MaxDimension x MaxDimension and re-encodes it as
// JPEG, lowering quality and then size until it fits MaxOutputBytes.
func (o *Optimizer) Optimize(data []byte) (*Optimized, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode photo")
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), o.cfg.MaxDimension)
	quality := o.cfg.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	for {
		img := scale(src, w, h)

		for q := quality; ; q -= qualityStep {
			if q < minQuality {
				q = minQuality
			}

			var buf bytes.Buffer
			if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
				return nil, errors.Wrap(err, "encode photo")
			}

			if o.cfg.MaxOutputBytes <= 0 || buf.Len() <= o.cfg.MaxOutputBytes {
				return &Optimized{Data: buf.Bytes(), MIME: outputMIME, Width: w, Height: h, Quality: q}, nil
			}
			if q == minQuality {
				break
			}
		}

		if w <= 1 && h <= 1 {
			return nil, errors.New("photo cannot be reduced below the output size limit")
		}
		w = max(1, int(float64(w)*shrinkRatio))
		h = max(1, int(float64(h)*shrinkRatio))
	}
}

func detect(u *Upload) string {
	kind := mimetype.Detect(u.Data)
	for m := kind; m != nil; m = m.Parent() {
		if allowed[m.String()] {
			return m.String()
		}
	}

	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(u.ContentType, ";", 2)[0]))
	if kind.Is("application/octet-stream") && allowed[declared] {
		return declared
	}
	return kind.String()
}

func fit(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

func scale(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
