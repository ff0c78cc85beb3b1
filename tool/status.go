package tool

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/moyoez/zipconsole/types"
)

const nullStatus = "NULL"

// NormalizeStatus upper-cases a server status; nil, non-scalar and blank values become "NULL".
func NormalizeStatus(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return nullStatus
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	case bool, int, int64, float64:
		s = fmt.Sprint(t)
	default:
		return nullStatus
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nullStatus
	}
	return strings.ToUpper(s)
}

// StatusClass maps a normalised status to the css class of its pill.
func StatusClass(status string) string {
	switch status {
	case "PENDING":
		return "is-pending"
	case "IN_PROGRESS":
		return "is-in-progress"
	case "COMPLETED", "UPLOADED", "SUCCESS":
		return "is-completed"
	case "FAILED":
		return "is-failed"
	case "NOT_APPLICABLE":
		return "is-na"
	default:
		return "is-null"
	}
}

// StatusLabel maps a normalised status to its display text.
func StatusLabel(status string) string {
	switch status {
	case "IN_PROGRESS":
		return "In Progress"
	case "NOT_APPLICABLE":
		return "N/A"
	case "":
		return ""
	}
	r := []rune(status)
	return string(r[0]) + strings.ToLower(string(r[1:]))
}

// StatusCellOf normalises v and attaches its label and class.
func StatusCellOf(v any) types.StatusCell {
	s := NormalizeStatus(v)
	return types.StatusCell{Value: s, Label: StatusLabel(s), Class: StatusClass(s)}
}

// DocumentStatusCellOf is StatusCellOf for the zip details view, which shows the
// raw status with underscores replaced instead of the dashboard label.
func DocumentStatusCellOf(v any) types.StatusCell {
	s := NormalizeStatus(v)
	return types.StatusCell{Value: s, Label: strings.ReplaceAll(s, "_", " "), Class: StatusClass(s)}
}

// TruncateFileName shortens names longer than 20 characters to 17 plus "...".
func TruncateFileName(name string) string {
	if name == "" {
		return "—"
	}
	r := []rune(name)
	if len(r) > 20 {
		return string(r[:17]) + "..."
	}
	return name
}

// FormatDocType turns "BANK_STATEMENT" into "Bank Statement".
func FormatDocType(docType string) string {
	if docType == "" {
		return "-"
	}
	s := strings.ReplaceAll(strings.ToLower(docType), "_", " ")
	out := []rune(s)
	startOfWord := true
	for i, r := range out {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		if isWord && startOfWord {
			out[i] = unicode.ToUpper(r)
		}
		startOfWord = !isWord
	}
	return string(out)
}
