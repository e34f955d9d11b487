package models

// ClothingAnalysis is the structured result of analyzing one clothing image.
// Value object only, no identity.
type ClothingAnalysis struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type GenerateSimpleIn struct {
	OutputFilename string `json:"output_filename" query:"output_filename" validate:"omitempty,max=200"`
}

type ProductListingResponse struct {
	Success            bool              `json:"success"`
	Message            string            `json:"message"`
	ClothingAnalysis   *ClothingAnalysis `json:"clothing_analysis,omitempty"`
	GeneratedImageURL  string            `json:"generated_image_url,omitempty"`
	GeneratedImagePath string            `json:"generated_image_path,omitempty"`
}

type ErrorOut struct {
	Detail string `json:"detail"`
}

type HealthOut struct {
	Status     string            `json:"status"`
	APIVersion string            `json:"api_version"`
	Endpoints  map[string]string `json:"endpoints"`
	UploadDir  string            `json:"upload_dir"`
	OutputDir  string            `json:"output_dir"`
}

type ListingsOut struct {
	Listings []Listing `json:"listings"`
}
