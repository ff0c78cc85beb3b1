package tool

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ResolveLocalPath accepts a plain path or a file:// URL and returns the filesystem path.
func ResolveLocalPath(pathOrURL string) (string, error) {
	if !strings.Contains(pathOrURL, "://") {
		if pathOrURL == "" {
			return "", fmt.Errorf("empty path")
		}
		return filepath.Clean(pathOrURL), nil
	}
	parsedUrl, err := url.Parse(pathOrURL)
	if err != nil {
		return "", fmt.Errorf("invalid fileUrl: %v", err)
	}
	if parsedUrl.Scheme != "file" {
		return "", fmt.Errorf("only file:// protocol is supported for fileUrl")
	}
	return parsedUrl.Path, nil
}

// GetFileInfoFromPath reads file information from local filesystem
// Returns fileName, size, fileType, error
func GetFileInfoFromPath(filePath string) (string, int64, string, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return "", 0, "", fmt.Errorf("failed to stat file: %v", err)
	}
	if fileInfo.IsDir() {
		return "", 0, "", fmt.Errorf("path is a directory, not a file")
	}
	fileName := filepath.Base(filePath)
	return fileName, fileInfo.Size(), DetectFileType(fileName), nil
}

// DetectFileType returns the MIME type for name based on its extension.
func DetectFileType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".zip" {
		// not in every platform mime table
		return "application/zip"
	}
	fileType := mime.TypeByExtension(ext)
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	return fileType
}
