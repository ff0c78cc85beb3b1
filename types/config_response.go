package types

// ConfigResponse is the JSON shape for GET /api/console/v1/config.
type ConfigResponse struct {
	ServerURL            string `json:"server_url"`
	DetailsBaseURL       string `json:"details_base_url"`
	Port                 int    `json:"port"`
	UploadTimeoutSeconds int    `json:"upload_timeout_seconds"`
	UploadsPerSecond     int    `json:"uploads_per_second"`
	CacheTTLSeconds      int    `json:"cache_ttl_seconds"`
	NotifyWebsocket      bool   `json:"notify_websocket"`
	NotifySocketPath     string `json:"notify_socket_path"`
}

// ConfigPatchRequest is the JSON body for PATCH /api/console/v1/config (partial update, all fields optional).
type ConfigPatchRequest struct {
	ServerURL            *string `json:"server_url"`
	DetailsBaseURL       *string `json:"details_base_url"`
	UploadTimeoutSeconds *int    `json:"upload_timeout_seconds"`
	UploadsPerSecond     *int    `json:"uploads_per_second"`
	CacheTTLSeconds      *int    `json:"cache_ttl_seconds"`
	NotifyWebsocket      *bool   `json:"notify_websocket"`
	NotifySocketPath     *string `json:"notify_socket_path"`
}
