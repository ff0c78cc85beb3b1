package tool

import (
	"fmt"
	"net/url"
	"strings"
)

func joinURL(base string, elems ...string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", fmt.Errorf("server URL is not configured")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}
	escaped := make([]string, 0, len(elems))
	for _, e := range elems {
		escaped = append(escaped, url.PathEscape(e))
	}
	return u.JoinPath(escaped...).String(), nil
}

// BuildUploadZipURL builds the /upload-zip URL.
func BuildUploadZipURL(base string) (string, error) {
	return joinURL(base, "upload-zip")
}

// BuildZipFilesURL builds the URL listing every archive uploaded by a customer.
func BuildZipFilesURL(base, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id must not be empty")
	}
	return joinURL(base, "get_all_students_zip_files", userID)
}

// BuildZipDocumentsURL builds the URL listing the documents extracted from one archive.
func BuildZipDocumentsURL(base, zipFileID string) (string, error) {
	if zipFileID == "" {
		return "", fmt.Errorf("zip file id must not be empty")
	}
	return joinURL(base, "get_all_files_within_zip_file", zipFileID)
}

// BuildZipDetailsLink builds the web UI link of the zip details page.
func BuildZipDetailsLink(base, zipFileID string) (string, error) {
	return joinURL(base, "zip", zipFileID)
}
