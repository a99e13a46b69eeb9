package utils

import (
	"os"
	"strings"
)

const (
	StorageProviderGCS  = "gcs"
	StorageProviderNone = "none"
)

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		if strings.TrimSpace(os.Getenv("GCS_BUCKET")) != "" {
			return StorageProviderGCS
		}
		return StorageProviderNone
	}
	return provider
}

// StorageConfigured reports whether uploaded files can be archived.
// Archival is best-effort audit storage; records persist without it.
func StorageConfigured() bool {
	return GetStorageProvider() == StorageProviderGCS
}
