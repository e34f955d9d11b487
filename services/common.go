package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
)

func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

func StrPointer(str string) *string {
	if str == "" {
		return nil
	}
	return &str
}

func Float64Pointer(f float64) *float64 {
	return &f
}

func Int32Pointer(i int32) *int32 {
	return &i
}

func floatPointer(f float32) *float32 {
	return &f
}

// SaveUploadedFile writes one multipart upload to destination on disk.
func SaveUploadedFile(file *multipart.FileHeader, destination string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file %s: %v", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %v", destination, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write uploaded file to %s: %v", destination, err)
	}
	return nil
}

// CleanupTempFiles removes the given paths, logging failures instead of
// returning them so cleanup never masks the workflow outcome.
func CleanupTempFiles(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: could not delete temp file %s: %v", path, err)
		}
	}
}
