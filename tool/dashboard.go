package tool

import (
	"fmt"
	"strings"

	"github.com/moyoez/zipconsole/types"
)

const (
	NoDataLabel     = "No data found"
	NoMatchingLabel = "No matching users found"
)

// BuildZipFileRows filters records by a case-insensitive file name search and numbers the result from 1.
func BuildZipFileRows(records []types.ZipFileRecord, search string) []types.ZipFileRow {
	needle := strings.ToLower(search)
	rows := make([]types.ZipFileRow, 0, len(records))
	for _, rec := range records {
		if !strings.Contains(strings.ToLower(rec.FileName), needle) {
			continue
		}
		rows = append(rows, types.ZipFileRow{
			Serial:            len(rows) + 1,
			ZipFileID:         rec.UUID,
			FileName:          rec.FileName,
			DisplayName:       TruncateFileName(rec.FileName),
			UploadStatus:      StatusCellOf(rec.UploadStatus),
			ExtractionStatus:  StatusCellOf(rec.ExtractionStatus),
			SpreadsheetStatus: StatusCellOf(rec.SpreadsheetStatus),
		})
	}
	return rows
}

// EmptyListingLabel is the placeholder shown when rows is empty.
func EmptyListingLabel(rows []types.ZipFileRow, search string) string {
	if len(rows) > 0 {
		return ""
	}
	if search != "" {
		return NoMatchingLabel
	}
	return NoDataLabel
}

// BuildDocumentCards maps the documents of one archive to display cards.
func BuildDocumentCards(zipFileID string, docs []types.DocumentRecord) []types.DocumentCard {
	cards := make([]types.DocumentCard, 0, len(docs))
	for _, doc := range docs {
		cards = append(cards, types.DocumentCard{
			ID:                   documentCardID(doc),
			DocumentName:         doc.DocumentName,
			DocumentType:         FormatDocType(doc.DocumentType),
			ExtractionStatus:     DocumentStatusCellOf(doc.ExtractionStatus),
			ClassificationStatus: DocumentStatusCellOf(doc.ClassificationStatus),
			ZipFileID:            zipFileID,
			CreatedAt:            doc.CreatedAt,
		})
	}
	return cards
}

func documentCardID(doc types.DocumentRecord) string {
	if doc.UUID != "" {
		return doc.UUID
	}
	switch id := doc.ID.(type) {
	case nil:
	case string:
		if id != "" {
			return id
		}
	case float64:
		if id != 0 {
			return fmt.Sprintf("%.0f", id)
		}
	default:
		return fmt.Sprint(id)
	}
	return fmt.Sprintf("%s-%s", doc.DocumentName, doc.CreatedAt)
}
