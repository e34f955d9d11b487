package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"

	"listingapi/models"
	"listingapi/services"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

// UploadFile is one file part for NewMultipartRequest.
type UploadFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// NewMultipartRequest builds a multipart/form-data request with explicit
// per-part content types, since CreateFormFile always sets octet-stream.
func NewMultipartRequest(method string, target string, files []UploadFile, fields map[string]string) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.Field, file.Filename))
		header.Set("Content-Type", file.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			log.Fatalf("Error creating multipart part: %v", err)
		}
		part.Write(file.Content)
	}
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	writer.Close()

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Add("Accept", "application/json")
	return req
}

// PNGBytes encodes a small solid-color PNG for upload fixtures.
func PNGBytes(width int, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 90, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		log.Fatalf("Error encoding fixture png: %v", err)
	}
	return buf.Bytes()
}

func Contains(items []string, lookFor string) bool {

	for i := 0; i < len(items); i++ {

		if items[i] == lookFor {
			return true
		}
	}
	return false
}

func NewRefString(data string) *string {
	return &data
}

// GoogleServiceMock fakes both remote calls. Zero value behaves like a fully
// successful provider.
type GoogleServiceMock struct {
	Analysis       *models.ClothingAnalysis
	AnalysisFailed bool
	GenerateErr    error
	GenerateEmpty  bool
	GenerateBytes  []byte
}

func (m GoogleServiceMock) AnalyzeClothing(ctx context.Context, clothingImagePath string) (*models.ClothingAnalysis, *services.LLMUsage) {
	usage := &services.LLMUsage{
		Model:            services.Flash25.String(),
		InputTokenCount:  10,
		OutputTokenCount: 13,
		TotalTokenCount:  23,
	}
	if m.AnalysisFailed {
		return &models.ClothingAnalysis{
			Description: "Analysis failed due to error",
			Tags:        []string{"analysis-error"},
		}, nil
	}
	if m.Analysis != nil {
		return m.Analysis, usage
	}
	return &models.ClothingAnalysis{
		Description: "Red cotton t-shirt with a crew neck and short sleeves",
		Tags:        []string{"t-shirt", "red", "cotton", "casual", "summer"},
	}, usage
}

func (m GoogleServiceMock) GenerateListing(ctx context.Context, clothingImagePath string, modelImagePath string) ([]byte, *services.LLMUsage, error) {
	usage := &services.LLMUsage{
		Model:            services.Flash25Image.String(),
		InputTokenCount:  20,
		OutputTokenCount: 40,
		TotalTokenCount:  60,
	}
	if m.GenerateErr != nil {
		return nil, nil, m.GenerateErr
	}
	if m.GenerateEmpty {
		return nil, usage, nil
	}
	if m.GenerateBytes != nil {
		return m.GenerateBytes, usage, nil
	}
	return PNGBytes(8, 8), usage, nil
}

var ErrGenerationDown = errors.New("model overloaded")
