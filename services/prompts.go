package services

const clothingAnalysisPrompt = `Analyze this clothing item and provide a detailed analysis in JSON format with the following structure:

{
  "description": "A detailed description of the clothing item including style, design, and notable features",
  "tags": ["list", "of", "relevant", "tags", "about", "color", "texture", "type", "style", "etc"]
}

For the tags, include relevant characteristics such as:
- Type of clothing (e.g. "hat", "shirt", "dress", "jacket")
- Color(s) (e.g. "brown", "black", "multicolor")
- Material/texture (e.g. "cotton", "denim", "leather", "straw", "woven")
- Style (e.g. "casual", "formal", "vintage", "modern")
- Notable features (e.g. "wide-brim", "button-up", "sleeveless", "patterned")
- Fit (e.g. "loose", "fitted", "oversized")

Provide only the JSON response, no additional text.`

const listingGenerationPrompt = `Create a sharp, high-quality image with four quadrants showing the person from the first image wearing the exact clothing item from the second image. Requirements:

1. Each quadrant shows a different angle (front, back, left side, right side)
2. The clothing must match EXACTLY: same color, texture, fit, and all details from the product image
3. Sharp focus with close-up view to clearly showcase the clothing
4. Consistent lighting and background across all quadrants
5. The clothing should fit naturally and realistically on the person
6. Maintain the exact fabric appearance, stitching, logos, and design elements
7. Professional photo quality suitable for online clothing marketplace
`
