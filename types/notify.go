package types

// Notification represents a notification message structure
type Notification struct {
	ID      string         `json:"id,omitempty"`
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "upload_start", "upload_end", etc.
	Level   string         `json:"level,omitempty"`   // info | success | warning | error
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}

const (
	NotifyTypeQueueSet      = "queue_set"
	NotifyTypeQueueRejected = "queue_rejected"
	NotifyTypeQueueReset    = "queue_reset"
	NotifyTypeNoFiles       = "no_files"
	NotifyTypeUploadStart   = "upload_start"
	NotifyTypeUploadItem    = "upload_item"
	NotifyTypeUploadEnd     = "upload_end"
	NotifyTypeProgress      = "progress" // sent once to a console that just connected
)

const (
	NotifyLevelInfo    = "info"
	NotifyLevelSuccess = "success"
	NotifyLevelWarning = "warning"
	NotifyLevelError   = "error"
)

// NotifyHub receives every notification; the websocket hub implements it.
type NotifyHub interface {
	Broadcast(notification *Notification)
}
