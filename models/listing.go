package models

import (
	"time"

	"github.com/lib/pq"
)

type JsonModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Listing is one generation run, recorded whether it succeeded or not.
type Listing struct {
	JsonModel
	SessionID      string         `gorm:"index" json:"session_id"`
	OutputFilename string         `json:"output_filename"`
	ImageURL       *string        `json:"image_url"`
	ImagePath      *string        `json:"image_path"`
	Description    *string        `gorm:"type:text" json:"description"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags"`
	Status         string         `json:"status"` // pending, completed, failed
	ErrorMessage   *string        `json:"error_message"`
	Duration       *float64       `json:"duration"` // in seconds

	AnalysisLLMModel      *string `json:"analysis_llm_model"`
	GenerationLLMModel    *string `json:"generation_llm_model"`
	LLMInputTokenCount    *int32  `json:"llm_input_token_count"`
	LLMOutputTokenCount   *int32  `json:"llm_output_token_count"`
	LLMThoughtsTokenCount *int32  `json:"llm_thoughts_token_count"`
	LLMTotalTokenCount    *int32  `json:"llm_total_token_count"`
}
