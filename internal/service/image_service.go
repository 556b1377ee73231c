package service

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"

	"mushroomservice/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	featuredImageMaxUploadMB = 10
	featuredImageMaxWidth    = 1440
	featuredImageMaxHeight   = 1440
	featuredWebPQuality      = 80
)

// ImageService converts uploaded featured images to webp and stores them
// under the configured upload directory.
type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(uploadDir string) *ImageService {
	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: featuredImageMaxUploadMB * 1024 * 1024,
	}
}

// StoreFeaturedImage validates and converts the upload, writes it to disk
// and returns the public URL path for the stored file.
func (s *ImageService) StoreFeaturedImage(content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(
			fmt.Sprintf("File too large (max %dMB)", featuredImageMaxUploadMB))
	}

	detectedType := http.DetectContentType(content)
	switch detectedType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	resized := resizeToFit(decoded, featuredImageMaxWidth, featuredImageMaxHeight)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, resized, &webp.Options{Quality: featuredWebPQuality}); err != nil {
		return "", models.NewInternalError(err)
	}

	name := uuid.NewString() + ".webp"
	rel := filepath.ToSlash(filepath.Join("posts", name))
	abs := filepath.Join(s.uploadDir, "posts", name)
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o600); err != nil {
		return "", models.NewInternalError(err)
	}

	return "/media/" + rel, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
