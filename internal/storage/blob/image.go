package blob

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	// Registers the GIF decoder for image.DecodeConfig.
	_ "image/gif"

	"github.com/nfnt/resize"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
)

const jpegQuality = 85

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is an upload that passed content sniffing.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// PrepareImage sniffs data, rejects anything that is not a supported image
// and downscales JPEG and PNG images wider than maxWidth. GIF and WebP are
// stored untouched. A maxWidth of zero disables resizing.
func PrepareImage(data []byte, maxWidth uint) (Image, error) {
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return Image{}, apperr.InvalidImageErr
	}

	img := Image{Data: data, ContentType: contentType, Ext: ext}
	if contentType == "image/webp" {
		return img, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, apperr.InvalidImageErr.WrapParent(err)
	}
	if maxWidth == 0 || uint(cfg.Width) <= maxWidth || contentType == "image/gif" {
		return img, nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, apperr.InvalidImageErr.WrapParent(err)
	}

	resized := resize.Resize(maxWidth, 0, decoded, resize.Lanczos3)

	var buf bytes.Buffer
	switch contentType {
	case "image/png":
		err = png.Encode(&buf, resized)
	default:
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return Image{}, fmt.Errorf("encode resized image: %w", err)
	}

	img.Data = buf.Bytes()
	return img, nil
}
