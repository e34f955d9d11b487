package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testPNGBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 160, B: 220, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	png.Encode(buf, img)
	return buf.Bytes()
}

func fileHeader(filename string, contentType string) *multipart.FileHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: filename, Header: header}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")
	os.WriteFile(path, testPNGBytes(), 0o644)

	data, mimeType, err := LoadImage(path)
	assert.Nil(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.NotEmpty(t, data)
}

func TestLoadImageMissing(t *testing.T) {
	_, _, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.NotNil(t, err)
}

func TestLoadImageInvalidPayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.png")
	os.WriteFile(path, []byte("definitely not pixels"), 0o644)

	_, _, err := LoadImage(path)
	assert.NotNil(t, err)
}

func TestValidateImageUpload(t *testing.T) {
	assert.True(t, ValidateImageUpload(fileHeader("shirt.png", "image/png")))
	assert.True(t, ValidateImageUpload(fileHeader("shirt.JPG", "image/jpeg")))
	assert.True(t, ValidateImageUpload(fileHeader("shirt.webp", "image/webp")))

	assert.False(t, ValidateImageUpload(fileHeader("notes.txt", "text/plain")))
	// content type alone is not enough, the extension must be on the list
	assert.False(t, ValidateImageUpload(fileHeader("vector.svg", "image/svg+xml")))
	// extension alone is not enough either
	assert.False(t, ValidateImageUpload(fileHeader("shirt.png", "application/octet-stream")))
	assert.False(t, ValidateImageUpload(fileHeader("noext", "image/png")))
}

func TestAllowedImageExtensionList(t *testing.T) {
	list := AllowedImageExtensionList()
	assert.Contains(t, list, "jpg")
	assert.Contains(t, list, "webp")
	assert.NotContains(t, list, ".")
}
