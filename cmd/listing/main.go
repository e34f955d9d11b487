package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"listingapi/services"
)

func main() {
	clothingPath := flag.String("clothing", "", "path to the clothing image")
	modelPath := flag.String("model", "", "path to the model image")
	output := flag.String("output", "", "output filename (optional)")
	flag.Parse()

	if *clothingPath == "" || *modelPath == "" {
		fmt.Fprintln(os.Stderr, "usage: listing -clothing <path> -model <path> [-output <filename>]")
		os.Exit(2)
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	workflow, err := services.NewListingWorkflow(services.GoogleService{}, nil, services.WorkflowConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize listing workflow: %v", err)
	}

	response, err := workflow.GenerateFromPaths(context.Background(), *clothingPath, *modelPath, *output)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	fmt.Printf("Saved: %s\n", response.GeneratedImagePath)
	if response.ClothingAnalysis != nil {
		fmt.Printf("Description: %s\n", response.ClothingAnalysis.Description)
		fmt.Printf("Tags: %s\n", strings.Join(response.ClothingAnalysis.Tags, ", "))
	}
}
