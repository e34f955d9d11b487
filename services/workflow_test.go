package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"listingapi/models"
)

type stubProvider struct {
	analysis    *models.ClothingAnalysis
	imageBytes  []byte
	generateErr error
}

func (s stubProvider) AnalyzeClothing(ctx context.Context, clothingImagePath string) (*models.ClothingAnalysis, *LLMUsage) {
	if s.analysis != nil {
		return s.analysis, &LLMUsage{Model: Flash25.String(), TotalTokenCount: 7}
	}
	return &models.ClothingAnalysis{
		Description: "Green linen shirt",
		Tags:        []string{"shirt", "linen", "green"},
	}, &LLMUsage{Model: Flash25.String(), TotalTokenCount: 7}
}

func (s stubProvider) GenerateListing(ctx context.Context, clothingImagePath string, modelImagePath string) ([]byte, *LLMUsage, error) {
	if s.generateErr != nil {
		return nil, nil, s.generateErr
	}
	return s.imageBytes, &LLMUsage{Model: Flash25Image.String(), TotalTokenCount: 11}, nil
}

func testWorkflow(t *testing.T, provider LLMProvider) *ListingWorkflow {
	workflow, err := NewListingWorkflow(provider, nil, WorkflowConfig{
		UploadDir:   t.TempDir(),
		OutputDir:   t.TempDir(),
		CallTimeout: 5 * time.Second,
	})
	assert.Nil(t, err)
	return workflow
}

func writeInputImages(t *testing.T) (string, string) {
	dir := t.TempDir()
	clothing := filepath.Join(dir, "clothing.png")
	model := filepath.Join(dir, "model.png")
	os.WriteFile(clothing, testPNGBytes(), 0o644)
	os.WriteFile(model, testPNGBytes(), 0o644)
	return clothing, model
}

func TestGenerateFromPaths(t *testing.T) {
	workflow := testWorkflow(t, stubProvider{imageBytes: testPNGBytes()})
	clothing, model := writeInputImages(t)

	response, err := workflow.GenerateFromPaths(context.Background(), clothing, model, "")
	assert.Nil(t, err)
	assert.True(t, response.Success)
	assert.True(t, strings.HasPrefix(response.GeneratedImageURL, "/images/product_listing_"))
	assert.Equal(t, "Green linen shirt", response.ClothingAnalysis.Description)

	saved, readErr := os.ReadFile(response.GeneratedImagePath)
	assert.Nil(t, readErr)
	assert.Equal(t, testPNGBytes(), saved)
}

func TestGenerateFromPathsMissingInput(t *testing.T) {
	workflow := testWorkflow(t, stubProvider{imageBytes: testPNGBytes()})

	_, err := workflow.GenerateFromPaths(context.Background(), "/nowhere/clothing.png", "/nowhere/model.png", "")
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestGenerateFromPathsGenerationError(t *testing.T) {
	workflow := testWorkflow(t, stubProvider{generateErr: errors.New("quota exceeded")})
	clothing, model := writeInputImages(t)

	_, err := workflow.GenerateFromPaths(context.Background(), clothing, model, "")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	outputs, _ := os.ReadDir(workflow.Config.OutputDir)
	assert.Empty(t, outputs)
}

func TestGenerateFromPathsInvalidImagePayload(t *testing.T) {
	workflow := testWorkflow(t, stubProvider{imageBytes: []byte("model returned garbage")})
	clothing, model := writeInputImages(t)

	_, err := workflow.GenerateFromPaths(context.Background(), clothing, model, "")
	assert.NotNil(t, err)

	// nothing is written when the payload does not decode
	outputs, _ := os.ReadDir(workflow.Config.OutputDir)
	assert.Empty(t, outputs)
}

func TestGenerateFromPathsDistinctHints(t *testing.T) {
	workflow := testWorkflow(t, stubProvider{imageBytes: testPNGBytes()})
	clothing, model := writeInputImages(t)

	first, err := workflow.GenerateFromPaths(context.Background(), clothing, model, "spring")
	assert.Nil(t, err)
	second, err := workflow.GenerateFromPaths(context.Background(), clothing, model, "summer")
	assert.Nil(t, err)

	assert.NotEqual(t, first.GeneratedImagePath, second.GeneratedImagePath)
	outputs, _ := os.ReadDir(workflow.Config.OutputDir)
	assert.Equal(t, 2, len(outputs))
}

func TestResolveOutputFilename(t *testing.T) {
	assert.Equal(t, "fallback.png", resolveOutputFilename("", "fallback.png"))
	assert.Equal(t, "listing.png", resolveOutputFilename("listing", "fallback.png"))
	assert.Equal(t, "listing.png", resolveOutputFilename("listing.png", "fallback.png"))
	assert.Equal(t, "listing.jpg", resolveOutputFilename("listing.jpg", "fallback.png"))
	assert.Equal(t, "listing.jpeg", resolveOutputFilename("listing.jpeg", "fallback.png"))
	assert.Equal(t, "listing.gif.png", resolveOutputFilename("listing.gif", "fallback.png"))
	// path components are stripped, only the base name survives
	assert.Equal(t, "evil.png", resolveOutputFilename("../../evil", "fallback.png"))
}

func TestCleanupTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clothing_tmp.png")
	os.WriteFile(path, []byte("x"), 0o644)

	CleanupTempFiles(path, filepath.Join(dir, "never_existed.png"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
