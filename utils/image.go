package utils

import (
	"bytes"
	"encoding/base64"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxImageWidth is the widest image kept in a stored data URL.
const MaxImageWidth = 1200

// DownscaleDataURL shrinks a base64 image data URL wider than MaxImageWidth.
// Remote URLs, undecodable payloads and small images are returned unchanged.
func DownscaleDataURL(src string) string {
	if !strings.HasPrefix(src, "data:image/") {
		return src
	}
	comma := strings.Index(src, ",")
	if comma < 0 || !strings.Contains(src[:comma], ";base64") {
		return src
	}
	raw, err := base64.StdEncoding.DecodeString(src[comma+1:])
	if err != nil {
		return src
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil || img.Bounds().Dx() <= MaxImageWidth {
		return src
	}

	resized := imaging.Resize(img, MaxImageWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	mime := "image/jpeg"
	if strings.HasPrefix(src, "data:image/png") {
		mime = "image/png"
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return src
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DownscaleImage applies DownscaleDataURL to an optional image field.
func DownscaleImage(src *string) *string {
	if src == nil {
		return nil
	}
	out := DownscaleDataURL(*src)
	return &out
}
