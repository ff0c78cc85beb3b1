package types

// ZipFileRecord is one uploaded archive as reported by the processing server.
type ZipFileRecord struct {
	UUID              string `json:"uuid"`
	FileName          string `json:"file_name"`
	UploadStatus      any    `json:"upload_status"`
	ExtractionStatus  any    `json:"extraction_status"`
	SpreadsheetStatus any    `json:"spreadsheet_status"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// DocumentRecord is one document extracted from an archive.
type DocumentRecord struct {
	UUID                 string `json:"uuid"`
	ID                   any    `json:"id"`
	DocumentName         string `json:"document_name"`
	DocumentType         string `json:"document_type"`
	ExtractionStatus     any    `json:"extraction_status"`
	ClassificationStatus any    `json:"classification_status"`
	CreatedAt            string `json:"created_at"`
}

// StatusCell is a normalised status with its presentation.
type StatusCell struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Class string `json:"class"`
}

// ZipFileRow is one dashboard table row.
type ZipFileRow struct {
	Serial            int        `json:"serial"`
	ZipFileID         string     `json:"zip_file_id"`
	FileName          string     `json:"file_name"`
	DisplayName       string     `json:"display_name"`
	UploadStatus      StatusCell `json:"upload_status"`
	ExtractionStatus  StatusCell `json:"extraction_status"`
	SpreadsheetStatus StatusCell `json:"spreadsheet_status"`
}

// DashboardResponse is returned by GET /api/console/v1/dashboard/:user_id.
type DashboardResponse struct {
	UserID     string       `json:"user_id"`
	Search     string       `json:"search,omitempty"`
	Rows       []ZipFileRow `json:"rows"`
	EmptyLabel string       `json:"empty_label,omitempty"`
}

// DocumentCard is one card of the zip details view.
type DocumentCard struct {
	ID                   string     `json:"id"`
	DocumentName         string     `json:"document_name"`
	DocumentType         string     `json:"document_type"`
	ExtractionStatus     StatusCell `json:"extraction_status"`
	ClassificationStatus StatusCell `json:"classification_status"`
	ZipFileID            string     `json:"zip_file_id"`
	CreatedAt            string     `json:"created_at,omitempty"`
}

// ZipDetailsResponse is returned by GET /api/console/v1/zip/:zip_file_id.
type ZipDetailsResponse struct {
	ZipFileID  string         `json:"zip_file_id"`
	Total      int            `json:"total"`
	Cards      []DocumentCard `json:"cards"`
	DetailsURL string         `json:"details_url,omitempty"`
}
