package types

// QueuePathsRequest is the JSON body for POST /api/console/v1/queue/paths.
// Each entry is a local path or a file:// URL.
type QueuePathsRequest struct {
	Paths []string `json:"paths"`
}

// DragRequest toggles the drag-active indicator.
type DragRequest struct {
	Active bool `json:"active"`
}

// QueueResponse is returned after any queue mutation.
type QueueResponse struct {
	Rejection *Rejection   `json:"rejection,omitempty"`
	Notice    string       `json:"notice,omitempty"` // warning toast text when files were ignored
	Progress  ProgressView `json:"progress"`
}

// UploadResponse is returned by the upload endpoints. Report is set once a run has finished.
type UploadResponse struct {
	Started  bool         `json:"started"`
	Notice   string       `json:"notice,omitempty"`
	Report   *RunReport   `json:"report,omitempty"`
	Progress ProgressView `json:"progress"`
}
