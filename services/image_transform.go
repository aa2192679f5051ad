package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const (
	maxImageEdge = 1920
	jpegQuality  = 80

	// maxDecodePixels caps the decoded size; larger images are stored as
	// uploaded.
	maxDecodePixels = 40_000_000
)

// fitWithin returns the size of a w x h image scaled so its longer edge is
// at most limit. Images already small enough keep their size.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// transformImage downscales a JPEG or PNG so its longer edge is at most
// 1920px and re-encodes it, JPEG at quality 80. Other formats are returned
// untouched with ok false.
func transformImage(data []byte) (out []byte, contentType string, ok bool, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", false, fmt.Errorf("decode image config: %w", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, "", false, nil
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxDecodePixels {
		return nil, "", false, fmt.Errorf("%dx%d %s exceeds %d pixels", cfg.Width, cfg.Height, format, maxDecodePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", false, fmt.Errorf("decode %s: %w", format, err)
	}

	w, h := fitWithin(cfg.Width, cfg.Height, maxImageEdge)
	if w != cfg.Width || h != cfg.Height {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", false, fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", true, nil
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", false, fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", true, nil
	}
}
