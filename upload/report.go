package upload

import (
	"fmt"

	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

const allUploadedMessage = "ZIP files uploaded successfully"

// AggregateReport summarises a finished run. Message is empty when there are no outcomes.
func AggregateReport(outcomes []types.UploadOutcome) types.RunReport {
	report := types.RunReport{Total: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Status == types.OutcomeFailed {
			report.Failed++
		}
	}
	switch {
	case report.Total == 0:
	case report.Failed == 0:
		report.Message = allUploadedMessage
	default:
		report.Message = fmt.Sprintf("%d/%d files failed to upload", report.Failed, report.Total)
	}
	return report
}

// ReportNotification wraps a report as the upload_end notification.
func ReportNotification(runID string, report types.RunReport) *types.Notification {
	level := types.NotifyLevelSuccess
	if report.Failed > 0 {
		level = types.NotifyLevelError
	}
	return &types.Notification{
		ID:      tool.GenerateRandomUUID(),
		Type:    types.NotifyTypeUploadEnd,
		Level:   level,
		Title:   "Upload finished",
		Message: report.Message,
		Data: map[string]any{
			"runId":  runID,
			"total":  report.Total,
			"failed": report.Failed,
		},
	}
}
