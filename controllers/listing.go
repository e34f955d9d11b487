package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"listingapi/models"
	"listingapi/services"
)

const apiVersion = "1.0.0"

func endpointMap() map[string]string {
	return map[string]string{
		"generate_simple":          "POST /generate-simple",
		"generate_product_listing": "POST /generate-product-listing",
		"images":                   "GET /images/{filename}",
		"listings":                 "GET /listings",
		"health":                   "GET /health",
	}
}

type ListingController struct {
	Workflow *services.ListingWorkflow
}

func (controller ListingController) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Product Listing Generator API",
		"version":   apiVersion,
		"endpoints": endpointMap(),
	})
}

func (controller ListingController) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthOut{
		Status:     "healthy",
		APIVersion: apiVersion,
		Endpoints:  endpointMap(),
		UploadDir:  controller.Workflow.Config.UploadDir,
		OutputDir:  controller.Workflow.Config.OutputDir,
	})
}

// GenerateSimple runs the pipeline on the bundled default images. Accepts an
// optional output_filename as query param or JSON body.
func (controller ListingController) GenerateSimple(c echo.Context) error {
	in := new(models.GenerateSimpleIn)
	if err := c.Bind(in); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorOut{Detail: "Invalid request payload"})
	}
	if in.OutputFilename == "" {
		in.OutputFilename = c.QueryParam("output_filename")
	}
	if err := c.Validate(in); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorOut{Detail: "output_filename is too long"})
	}

	response, err := controller.Workflow.GenerateDefault(c.Request().Context(), in.OutputFilename)
	if err != nil {
		return listingError(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

// GenerateProductListing accepts a clothing image and a model image as
// multipart form files and returns the generated listing.
func (controller ListingController) GenerateProductListing(c echo.Context) error {
	clothingFile, err := c.FormFile("clothing_image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorOut{Detail: "clothing_image file is required"})
	}
	modelFile, err := c.FormFile("model_image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorOut{Detail: "model_image file is required"})
	}
	outputHint := c.FormValue("output_filename")

	response, err := controller.Workflow.GenerateFromUploads(c.Request().Context(), clothingFile, modelFile, outputHint)
	if err != nil {
		return listingError(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

// GetImage serves a previously generated image from the output directory.
func (controller ListingController) GetImage(c echo.Context) error {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) {
		return c.JSON(http.StatusNotFound, models.ErrorOut{Detail: "Image not found"})
	}
	path := filepath.Join(controller.Workflow.Config.OutputDir, filename)
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, models.ErrorOut{Detail: "Image not found"})
	}
	return c.File(path)
}

// ListListings returns recent generation history, newest first.
func (controller ListingController) ListListings(c echo.Context) error {
	db := c.Get("__db").(*gorm.DB)
	var listings []models.Listing
	if err := db.Order("created_at desc").Limit(50).Find(&listings).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorOut{Detail: "Failed to load listings"})
	}
	return c.JSON(http.StatusOK, models.ListingsOut{Listings: listings})
}

func listingError(c echo.Context, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, models.ErrorOut{Detail: validationErr.Detail})
	}
	return c.JSON(http.StatusInternalServerError, models.ErrorOut{Detail: err.Error()})
}

func (controller ListingController) ListingRoutes(e *echo.Echo) {
	e.GET("/", controller.Root)
	e.GET("/health", controller.Health)
	e.POST("/generate-simple", controller.GenerateSimple)
	e.POST("/generate-product-listing", controller.GenerateProductListing)
	e.GET("/images/:filename", controller.GetImage)
	e.GET("/listings", controller.ListListings)
}
