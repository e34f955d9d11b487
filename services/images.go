package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// AllowedImageExtensionList is the human-readable allow-list used in error
// details, e.g. "jpg, jpeg, png, gif, bmp, webp".
func AllowedImageExtensionList() string {
	names := make([]string, len(allowedImageExtensions))
	for i, ext := range allowedImageExtensions {
		names[i] = strings.TrimPrefix(ext, ".")
	}
	return strings.Join(names, ", ")
}

// LoadImage reads an image file from disk and verifies it decodes as a raster
// image. Returns the raw bytes and detected MIME type.
func LoadImage(path string) ([]byte, string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, "", fmt.Errorf("image file not found: %s: %v", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("error reading image %s: %v", path, err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("error decoding image %s: %v", path, err)
	}
	return data, "image/" + format, nil
}

// ValidateImageUpload checks one multipart upload against the content-type
// prefix and the extension allow-list. It does not read the file body.
func ValidateImageUpload(file *multipart.FileHeader) bool {
	if file == nil {
		return false
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	return slices.Contains(allowedImageExtensions, ext)
}
