package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"

	"listingapi/models"
)

// LLMModelName selects the Gemini model for a call.
type LLMModelName int32

const (
	Flash25 LLMModelName = iota
	Flash25Image
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Flash25:
		return "gemini-2.5-flash"
	case Flash25Image:
		return "gemini-2.5-flash-image-preview"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

type LLMUsage struct {
	Model              string `json:"model"`
	InputTokenCount    int32  `json:"input_token_count"`
	OutputTokenCount   int32  `json:"output_token_count"`
	ThoughtsTokenCount int32  `json:"thoughts_token_count"`
	TotalTokenCount    int32  `json:"total_token_count"`
}

// LLMProvider is the remote vision/generation capability behind the workflow.
//
// AnalyzeClothing never returns an error: every failure path degrades to a
// sentinel ClothingAnalysis so analysis stays non-fatal for callers.
// GenerateListing returns the raw bytes of the first inline image in the
// response, or nil bytes with nil error when the model produced no image.
type LLMProvider interface {
	AnalyzeClothing(ctx context.Context, clothingImagePath string) (*models.ClothingAnalysis, *LLMUsage)
	GenerateListing(ctx context.Context, clothingImagePath string, modelImagePath string) ([]byte, *LLMUsage, error)
}

type GoogleService struct{}

func newGenaiClient(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
}

func cleanAIResponseText(text string) string {
	cleanContent := strings.TrimSpace(text)
	if strings.HasPrefix(cleanContent, "```json") {
		cleanContent = strings.TrimPrefix(cleanContent, "```json")
	} else {
		cleanContent = strings.TrimPrefix(cleanContent, "```")
	}
	cleanContent = strings.TrimSuffix(strings.TrimSpace(cleanContent), "```")
	return strings.TrimSpace(cleanContent)
}

func parseClothingAnalysis(text string) (*models.ClothingAnalysis, error) {
	var analysis models.ClothingAnalysis
	if err := json.Unmarshal([]byte(cleanAIResponseText(text)), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func analysisParseFallback() *models.ClothingAnalysis {
	return &models.ClothingAnalysis{
		Description: "Analysis failed - could not parse response",
		Tags:        []string{"analysis-failed"},
	}
}

func analysisErrorFallback() *models.ClothingAnalysis {
	return &models.ClothingAnalysis{
		Description: "Analysis failed due to error",
		Tags:        []string{"analysis-error"},
	}
}

// firstInlineImage scans the response candidates for the first part carrying
// inline image bytes.
func firstInlineImage(result *genai.GenerateContentResponse) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("nil response")
	}
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("content blocked by safety setting: %s", rating.Category)
			}
		}
		if cand.Content == nil || len(cand.Content.Parts) == 0 {
			continue
		}
		for _, part := range cand.Content.Parts {
			inlineData := part.InlineData
			if inlineData == nil {
				continue
			}
			if strings.HasPrefix(inlineData.MIMEType, "image/") && len(inlineData.Data) > 0 {
				return inlineData.Data, nil
			}
		}
	}
	return nil, nil
}

func usageFromResult(model LLMModelName, result *genai.GenerateContentResponse) *LLMUsage {
	usage := &LLMUsage{Model: model.String()}
	if result == nil || result.UsageMetadata == nil {
		return usage
	}
	usage.InputTokenCount = result.UsageMetadata.PromptTokenCount
	usage.OutputTokenCount = result.UsageMetadata.CandidatesTokenCount
	usage.ThoughtsTokenCount = result.UsageMetadata.ThoughtsTokenCount
	usage.TotalTokenCount = result.UsageMetadata.TotalTokenCount
	return usage
}

func (gs GoogleService) AnalyzeClothing(ctx context.Context, clothingImagePath string) (*models.ClothingAnalysis, *LLMUsage) {
	model := Flash25
	client, err := newGenaiClient(ctx)
	if err != nil {
		log.Printf("Error creating genai client: %v", err)
		sentry.CaptureException(err)
		return analysisErrorFallback(), &LLMUsage{Model: model.String()}
	}

	imageBytes, mimeType, err := LoadImage(clothingImagePath)
	if err != nil {
		log.Printf("Error loading clothing image %s: %v", clothingImagePath, err)
		return analysisErrorFallback(), &LLMUsage{Model: model.String()}
	}

	parts := []*genai.Part{
		{Text: clothingAnalysisPrompt},
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageBytes}},
	}

	result, err := client.Models.GenerateContent(ctx, model.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount: 1,
		Temperature:    floatPointer(1),
	})
	if err != nil {
		log.Printf("Error analyzing clothing %s: %v", clothingImagePath, err)
		sentry.CaptureException(fmt.Errorf("error analyzing clothing %s: %v", clothingImagePath, err))
		return analysisErrorFallback(), &LLMUsage{Model: model.String()}
	}

	analysis, err := parseClothingAnalysis(result.Text())
	if err != nil {
		log.Printf("Error parsing analysis response: %v", err)
		log.Printf("Raw response: %q", result.Text())
		return analysisParseFallback(), usageFromResult(model, result)
	}
	return analysis, usageFromResult(model, result)
}

func (gs GoogleService) GenerateListing(ctx context.Context, clothingImagePath string, modelImagePath string) ([]byte, *LLMUsage, error) {
	model := Flash25Image
	client, err := newGenaiClient(ctx)
	if err != nil {
		return nil, &LLMUsage{Model: model.String()}, fmt.Errorf("error creating genai client: %v", err)
	}

	clothingBytes, clothingMime, err := LoadImage(clothingImagePath)
	if err != nil {
		return nil, &LLMUsage{Model: model.String()}, err
	}
	modelBytes, modelMime, err := LoadImage(modelImagePath)
	if err != nil {
		return nil, &LLMUsage{Model: model.String()}, err
	}

	// Order matters to the prompt: instruction, person image, clothing image.
	parts := []*genai.Part{
		{Text: listingGenerationPrompt},
		{InlineData: &genai.Blob{MIMEType: modelMime, Data: modelBytes}},
		{InlineData: &genai.Blob{MIMEType: clothingMime, Data: clothingBytes}},
	}

	result, err := client.Models.GenerateContent(ctx, model.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount:     1,
		Temperature:        floatPointer(1),
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		sentry.CaptureException(fmt.Errorf("error generating listing: %v", err))
		return nil, &LLMUsage{Model: model.String()}, fmt.Errorf("error generating listing image: %v", err)
	}

	if result.PromptFeedback != nil {
		log.Printf("Prompt blocked: %s %s", result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
		return nil, usageFromResult(model, result), fmt.Errorf("content violation: %s", result.PromptFeedback.BlockReasonMessage)
	}

	imageBytes, err := firstInlineImage(result)
	if err != nil {
		return nil, usageFromResult(model, result), err
	}
	return imageBytes, usageFromResult(model, result), nil
}
