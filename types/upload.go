package types

import (
	"fmt"
	"io"
)

// InputSource names where a batch of candidate files came from.
type InputSource string

const (
	InputSourcePicker InputSource = "picker" // explicit file selection
	InputSourceDrop   InputSource = "drop"   // drag-and-drop
	InputSourcePaths  InputSource = "paths"  // local paths (CLI or file:// URLs)
)

// FileSource is the opaque payload handed to the upload operation. Each Open returns a fresh reader.
type FileSource interface {
	Open() (io.ReadCloser, error)
}

// Candidate is a file offered for the queue before validation.
type Candidate struct {
	Name   string
	Size   int64
	Source FileSource
}

// QueueItem is one archive accepted into the queue.
type QueueItem struct {
	Name    string     `json:"name"`
	Size    int64      `json:"size"`
	Payload FileSource `json:"-"`
}

// OutcomeStatus is the result of one upload attempt.
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
)

// FailureKind tags which fallback produced a FailureDetail.
type FailureKind string

const (
	FailureBody    FailureKind = "body"    // structured response body from the server
	FailureMessage FailureKind = "message" // plain error message
	FailureRaw     FailureKind = "raw"     // anything else, formatted with %v
)

// FailureDetail describes why an upload attempt failed.
type FailureDetail struct {
	Kind    FailureKind `json:"kind"`
	Body    any         `json:"body,omitempty"`
	Message string      `json:"message,omitempty"`
	Raw     string      `json:"raw,omitempty"`
}

// Summary returns a single line suitable for a table cell or a log entry.
func (f FailureDetail) Summary() string {
	switch f.Kind {
	case FailureBody:
		if m, ok := f.Body.(map[string]any); ok {
			for _, key := range []string{"error", "detail", "message", "msg"} {
				if s, ok := m[key].(string); ok && s != "" {
					return s
				}
			}
		}
		if s, ok := f.Body.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", f.Body)
	case FailureMessage:
		return f.Message
	default:
		return f.Raw
	}
}

// BodyCarrier is implemented by errors that carry a decoded response body.
type BodyCarrier interface {
	ResponseBody() any
}

// UploadOutcome is the recorded result of uploading one QueueItem.
// Data is set iff Status is OutcomeSucceeded, Error iff OutcomeFailed.
type UploadOutcome struct {
	FileName string         `json:"fileName"`
	Status   OutcomeStatus  `json:"status"`
	Data     any            `json:"data,omitempty"`
	Error    *FailureDetail `json:"error,omitempty"`
}

// RunState is a point-in-time copy of the upload controller state.
type RunState struct {
	RunID        string          `json:"runId,omitempty"`
	IsRunning    bool            `json:"isRunning"`
	CurrentIndex int             `json:"currentIndex"`
	Queue        []QueueItem     `json:"queue"`
	Outcomes     []UploadOutcome `json:"outcomes"`
	DragActive   bool            `json:"dragActive"`
}

// DisplayStatus is the per-row status shown next to a queued archive.
type DisplayStatus string

const (
	DisplayUploaded  DisplayStatus = "Uploaded"
	DisplayFailed    DisplayStatus = "Failed"
	DisplayUploading DisplayStatus = "Uploading"
	DisplayProcessed DisplayStatus = "Processed"
	DisplayWaiting   DisplayStatus = "Waiting"
)

// Class returns the css class the web UI uses for the status pill.
func (d DisplayStatus) Class() string {
	switch d {
	case DisplayUploaded:
		return "is-success"
	case DisplayFailed:
		return "is-error"
	case DisplayUploading:
		return "is-in-progress"
	case DisplayProcessed:
		return "is-pending"
	default:
		return "is-waiting"
	}
}

// ProgressRow is one line of the upload list.
type ProgressRow struct {
	Index  int           `json:"index"`
	Name   string        `json:"name"`
	Status DisplayStatus `json:"status"`
	Class  string        `json:"class"`
	Error  string        `json:"error,omitempty"`
}

// ProgressView is the read-only projection returned by GET /upload/progress.
type ProgressView struct {
	RunID           string        `json:"runId,omitempty"`
	Label           string        `json:"label"`
	IsRunning       bool          `json:"isRunning"`
	IsAllSuccessful bool          `json:"isAllSuccessful"`
	DragActive      bool          `json:"dragActive"`
	CurrentIndex    int           `json:"currentIndex"`
	Total           int           `json:"total"`
	Completed       int           `json:"completed"`
	Rows            []ProgressRow `json:"rows"`
}

// Rejection lists candidate files that failed validation.
type Rejection struct {
	Accepted int      `json:"accepted"`
	Rejected []string `json:"rejected,omitempty"`
}

// RunReport is what a finished run is summarised as.
type RunReport struct {
	Total    int             `json:"total"`
	Failed   int             `json:"failed"`
	Message  string          `json:"message"`
	Outcomes []UploadOutcome `json:"outcomes"`
}
