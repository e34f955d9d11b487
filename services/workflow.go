package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"listingapi/models"
)

// ValidationError marks failures the client caused (bad upload, missing
// default image) so the HTTP layer can answer 400 instead of 500.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

type WorkflowConfig struct {
	UploadDir           string
	OutputDir           string
	DefaultClothingPath string
	DefaultModelPath    string
	CallTimeout         time.Duration
}

func WorkflowConfigFromEnv() WorkflowConfig {
	timeoutSeconds, err := strconv.Atoi(GetEnv("GEMINI_TIMEOUT_SECONDS", "120"))
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 120
	}
	return WorkflowConfig{
		UploadDir:           GetEnv("UPLOAD_DIR", "temp_uploads"),
		OutputDir:           GetEnv("OUTPUT_DIR", "output"),
		DefaultClothingPath: GetEnv("DEFAULT_CLOTHING_IMAGE", "clothes/IMG_7277.jpeg"),
		DefaultModelPath:    GetEnv("DEFAULT_MODEL_IMAGE", "model/ImageCrocPrototype.jpeg"),
		CallTimeout:         time.Duration(timeoutSeconds) * time.Second,
	}
}

// ListingWorkflow runs one generation session: persist inputs, call the
// analyzer and the generator, persist the output, clean up. Directories come
// in through the config so tests can point it at isolated fixtures.
type ListingWorkflow struct {
	LLM    LLMProvider
	DB     *gorm.DB // nil skips history recording (CLI mode)
	Config WorkflowConfig
}

func NewListingWorkflow(llm LLMProvider, db *gorm.DB, config WorkflowConfig) (*ListingWorkflow, error) {
	if err := os.MkdirAll(config.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %v", config.UploadDir, err)
	}
	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %v", config.OutputDir, err)
	}
	return &ListingWorkflow{LLM: llm, DB: db, Config: config}, nil
}

// GenerateFromUploads validates and persists both uploads under a fresh
// session id, runs the pipeline and always removes the temp inputs on exit.
func (w *ListingWorkflow) GenerateFromUploads(ctx context.Context, clothingFile *multipart.FileHeader, modelFile *multipart.FileHeader, outputHint string) (*models.ProductListingResponse, error) {
	if !ValidateImageUpload(clothingFile) {
		return nil, &ValidationError{Detail: fmt.Sprintf("Clothing image must be a valid image file (%s)", AllowedImageExtensionList())}
	}
	if !ValidateImageUpload(modelFile) {
		return nil, &ValidationError{Detail: fmt.Sprintf("Model image must be a valid image file (%s)", AllowedImageExtensionList())}
	}

	sessionID := uuid.New().String()
	clothingTempPath := filepath.Join(w.Config.UploadDir, "clothing_"+sessionID+strings.ToLower(filepath.Ext(clothingFile.Filename)))
	modelTempPath := filepath.Join(w.Config.UploadDir, "model_"+sessionID+strings.ToLower(filepath.Ext(modelFile.Filename)))
	defer CleanupTempFiles(clothingTempPath, modelTempPath)

	log.Printf("[Session: %s] Saving clothing image: %s -> %s", sessionID, clothingFile.Filename, clothingTempPath)
	if err := SaveUploadedFile(clothingFile, clothingTempPath); err != nil {
		sentry.CaptureException(err)
		return nil, err
	}
	log.Printf("[Session: %s] Saving model image: %s -> %s", sessionID, modelFile.Filename, modelTempPath)
	if err := SaveUploadedFile(modelFile, modelTempPath); err != nil {
		sentry.CaptureException(err)
		return nil, err
	}

	outputFilename := resolveOutputFilename(outputHint, "product_listing_"+sessionID+".png")
	return w.run(ctx, sessionID, clothingTempPath, modelTempPath, outputFilename)
}

// GenerateDefault runs the pipeline on the two configured default images.
// No upload, no temp files; used to smoke-test the pipeline.
func (w *ListingWorkflow) GenerateDefault(ctx context.Context, outputHint string) (*models.ProductListingResponse, error) {
	if _, err := os.Stat(w.Config.DefaultClothingPath); err != nil {
		return nil, &ValidationError{Detail: fmt.Sprintf("Default clothing image not found: %s", w.Config.DefaultClothingPath)}
	}
	if _, err := os.Stat(w.Config.DefaultModelPath); err != nil {
		return nil, &ValidationError{Detail: fmt.Sprintf("Default model image not found: %s", w.Config.DefaultModelPath)}
	}

	sessionID := uuid.New().String()
	outputFilename := resolveOutputFilename(outputHint, "simple_listing_"+sessionID[:8]+".png")
	return w.run(ctx, sessionID, w.Config.DefaultClothingPath, w.Config.DefaultModelPath, outputFilename)
}

// GenerateFromPaths runs the pipeline on images already on disk.
func (w *ListingWorkflow) GenerateFromPaths(ctx context.Context, clothingPath string, modelPath string, outputHint string) (*models.ProductListingResponse, error) {
	for _, path := range []string{clothingPath, modelPath} {
		if _, err := os.Stat(path); err != nil {
			return nil, &ValidationError{Detail: fmt.Sprintf("Image not found: %s", path)}
		}
	}

	sessionID := uuid.New().String()
	outputFilename := resolveOutputFilename(outputHint, "product_listing_"+sessionID+".png")
	return w.run(ctx, sessionID, clothingPath, modelPath, outputFilename)
}

func (w *ListingWorkflow) run(ctx context.Context, sessionID string, clothingPath string, modelPath string, outputFilename string) (*models.ProductListingResponse, error) {
	listing := w.createListingRecord(sessionID, outputFilename)
	startedAt := time.Now()

	// The analyzer and the generator are independent, so both remote calls
	// run at once and join before response assembly.
	var wg sync.WaitGroup
	var analysis *models.ClothingAnalysis
	var analysisUsage *LLMUsage
	var imageBytes []byte
	var generationUsage *LLMUsage
	var generationErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, w.Config.CallTimeout)
		defer cancel()
		analysis, analysisUsage = w.LLM.AnalyzeClothing(callCtx, clothingPath)
	}()
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, w.Config.CallTimeout)
		defer cancel()
		imageBytes, generationUsage, generationErr = w.LLM.GenerateListing(callCtx, clothingPath, modelPath)
	}()
	wg.Wait()

	duration := time.Since(startedAt).Seconds()
	if generationErr != nil {
		log.Printf("[Session: %s] Generation failed: %v", sessionID, generationErr)
		sentry.CaptureException(generationErr)
		w.finishListingRecord(listing, analysis, analysisUsage, generationUsage, duration, generationErr)
		return nil, fmt.Errorf("failed to generate product listing: %v", generationErr)
	}
	if len(imageBytes) == 0 {
		log.Printf("[Session: %s] No image was generated in the response", sessionID)
		err := fmt.Errorf("failed to generate product listing image")
		w.finishListingRecord(listing, analysis, analysisUsage, generationUsage, duration, err)
		return nil, err
	}

	// Decode before writing so a bad payload never leaves a file behind.
	if _, _, err := image.DecodeConfig(bytes.NewReader(imageBytes)); err != nil {
		log.Printf("[Session: %s] Generated payload is not a valid image: %v", sessionID, err)
		sentry.CaptureException(err)
		wrapped := fmt.Errorf("failed to generate product listing: invalid image payload")
		w.finishListingRecord(listing, analysis, analysisUsage, generationUsage, duration, wrapped)
		return nil, wrapped
	}

	outputPath := filepath.Join(w.Config.OutputDir, outputFilename)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		w.finishListingRecord(listing, analysis, analysisUsage, generationUsage, duration, err)
		return nil, fmt.Errorf("failed to create output directory: %v", err)
	}
	if err := os.WriteFile(outputPath, imageBytes, 0o644); err != nil {
		sentry.CaptureException(err)
		w.finishListingRecord(listing, analysis, analysisUsage, generationUsage, duration, err)
		return nil, fmt.Errorf("failed to save product listing image: %v", err)
	}
	log.Printf("[Session: %s] Product listing image saved to: %s (%.2fs)", sessionID, outputPath, duration)

	message := "Product listing generated successfully!"
	if IsAnalysisSentinel(analysis) {
		message = "Product listing generated, but clothing analysis was unavailable"
	}

	response := &models.ProductListingResponse{
		Success:            true,
		Message:            message,
		ClothingAnalysis:   analysis,
		GeneratedImageURL:  "/images/" + outputFilename,
		GeneratedImagePath: outputPath,
	}
	w.finishListingRecord(listing, analysis, analysisUsage, generationUsage, duration, nil)
	return response, nil
}

// IsAnalysisSentinel reports whether the analysis is one of the degraded
// placeholder values rather than a real model result.
func IsAnalysisSentinel(analysis *models.ClothingAnalysis) bool {
	if analysis == nil {
		return true
	}
	for _, tag := range analysis.Tags {
		if tag == "analysis-failed" || tag == "analysis-error" {
			return true
		}
	}
	return false
}

func resolveOutputFilename(hint string, fallback string) string {
	name := filepath.Base(strings.TrimSpace(hint))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fallback
	}
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".png") && !strings.HasSuffix(lower, ".jpg") && !strings.HasSuffix(lower, ".jpeg") {
		name += ".png"
	}
	return name
}

func (w *ListingWorkflow) createListingRecord(sessionID string, outputFilename string) *models.Listing {
	if w.DB == nil {
		return nil
	}
	listing := &models.Listing{
		SessionID:      sessionID,
		OutputFilename: outputFilename,
		Status:         "pending",
	}
	if err := w.DB.Create(listing).Error; err != nil {
		log.Printf("[Session: %s] Error creating listing record: %v", sessionID, err)
		sentry.CaptureException(err)
		return nil
	}
	return listing
}

func (w *ListingWorkflow) finishListingRecord(listing *models.Listing, analysis *models.ClothingAnalysis, analysisUsage *LLMUsage, generationUsage *LLMUsage, duration float64, runErr error) {
	if w.DB == nil || listing == nil {
		return
	}
	listing.Duration = Float64Pointer(duration)
	if analysis != nil {
		listing.Description = StrPointer(analysis.Description)
		listing.Tags = analysis.Tags
	}
	if analysisUsage != nil {
		listing.AnalysisLLMModel = StrPointer(analysisUsage.Model)
	}
	if generationUsage != nil {
		listing.GenerationLLMModel = StrPointer(generationUsage.Model)
	}
	var input, output, thoughts, total int32
	for _, usage := range []*LLMUsage{analysisUsage, generationUsage} {
		if usage == nil {
			continue
		}
		input += usage.InputTokenCount
		output += usage.OutputTokenCount
		thoughts += usage.ThoughtsTokenCount
		total += usage.TotalTokenCount
	}
	listing.LLMInputTokenCount = Int32Pointer(input)
	listing.LLMOutputTokenCount = Int32Pointer(output)
	listing.LLMThoughtsTokenCount = Int32Pointer(thoughts)
	listing.LLMTotalTokenCount = Int32Pointer(total)

	if runErr != nil {
		listing.Status = "failed"
		listing.ErrorMessage = StrPointer(runErr.Error())
	} else {
		listing.Status = "completed"
		listing.ImageURL = StrPointer("/images/" + listing.OutputFilename)
		listing.ImagePath = StrPointer(filepath.Join(w.Config.OutputDir, listing.OutputFilename))
	}
	if err := w.DB.Save(listing).Error; err != nil {
		log.Printf("[Session: %s] Error saving listing record: %v", listing.SessionID, err)
		sentry.CaptureException(err)
	}
}
