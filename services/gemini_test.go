package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestCleanAIResponseText(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, cleanAIResponseText("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, cleanAIResponseText("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, cleanAIResponseText("  {\"a\": 1}  "))
	assert.Equal(t, "", cleanAIResponseText("``````"))
}

func TestParseClothingAnalysis(t *testing.T) {
	analysis, err := parseClothingAnalysis("```json\n{\"description\": \"Blue denim jacket\", \"tags\": [\"denim\", \"jacket\"]}\n```")
	assert.Nil(t, err)
	assert.Equal(t, "Blue denim jacket", analysis.Description)
	assert.Equal(t, []string{"denim", "jacket"}, analysis.Tags)

	analysis, err = parseClothingAnalysis(`{"description": "Plain", "tags": []}`)
	assert.Nil(t, err)
	assert.Equal(t, "Plain", analysis.Description)

	_, err = parseClothingAnalysis("the model wrote prose instead of json")
	assert.NotNil(t, err)
}

func TestAnalysisFallbacks(t *testing.T) {
	parseFallback := analysisParseFallback()
	assert.Equal(t, []string{"analysis-failed"}, parseFallback.Tags)
	assert.True(t, IsAnalysisSentinel(parseFallback))

	errorFallback := analysisErrorFallback()
	assert.Equal(t, []string{"analysis-error"}, errorFallback.Tags)
	assert.True(t, IsAnalysisSentinel(errorFallback))

	real, _ := parseClothingAnalysis(`{"description": "Wool coat", "tags": ["coat", "wool"]}`)
	assert.False(t, IsAnalysisSentinel(real))
	assert.True(t, IsAnalysisSentinel(nil))
}

func TestFirstInlineImage(t *testing.T) {
	response := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "Here is your listing"},
						{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
						{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{9, 9}}},
					},
				},
			},
		},
	}
	data, err := firstInlineImage(response)
	assert.Nil(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestFirstInlineImageNoImagePart(t *testing.T) {
	response := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry, text only"}}}},
		},
	}
	data, err := firstInlineImage(response)
	assert.Nil(t, err)
	assert.Nil(t, data)
}

func TestFirstInlineImageBlocked(t *testing.T) {
	response := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{SafetyRatings: []*genai.SafetyRating{{Blocked: true, Category: genai.HarmCategoryHarassment}}},
		},
	}
	_, err := firstInlineImage(response)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestUsageFromResult(t *testing.T) {
	usage := usageFromResult(Flash25Image, &genai.GenerateContentResponse{
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: 40,
			ThoughtsTokenCount:   5,
			TotalTokenCount:      145,
		},
	})
	assert.Equal(t, "gemini-2.5-flash-image-preview", usage.Model)
	assert.Equal(t, int32(100), usage.InputTokenCount)
	assert.Equal(t, int32(40), usage.OutputTokenCount)
	assert.Equal(t, int32(5), usage.ThoughtsTokenCount)
	assert.Equal(t, int32(145), usage.TotalTokenCount)

	empty := usageFromResult(Flash25, nil)
	assert.Equal(t, "gemini-2.5-flash", empty.Model)
	assert.Equal(t, int32(0), empty.TotalTokenCount)
}

func TestLLMModelNameString(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", Flash25.String())
	assert.Equal(t, "gemini-2.5-flash-image-preview", Flash25Image.String())
	assert.Equal(t, "gemini-2.0-flash", Flash20.String())
}
