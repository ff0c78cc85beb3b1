package upload

import (
	"fmt"

	"github.com/moyoez/zipconsole/types"
)

// ProgressLabel is the one-line summary above the upload list.
func ProgressLabel(s types.RunState) string {
	total := len(s.Queue)
	switch {
	case s.IsRunning:
		return fmt.Sprintf("Uploading %d of %d...", min(s.CurrentIndex+1, total), total)
	case total == 1:
		return "1 file in queue"
	case total > 1:
		return fmt.Sprintf("%d files in queue", total)
	default:
		return "No files selected"
	}
}

// ItemDisplayStatus derives the status of queue row i. A recorded outcome always
// wins; an index behind currentIndex without an outcome is "Processed".
func ItemDisplayStatus(s types.RunState, i int) types.DisplayStatus {
	if i < len(s.Outcomes) {
		if s.Outcomes[i].Status == types.OutcomeSucceeded {
			return types.DisplayUploaded
		}
		return types.DisplayFailed
	}
	switch {
	case i == s.CurrentIndex && s.IsRunning:
		return types.DisplayUploading
	case i < s.CurrentIndex:
		return types.DisplayProcessed
	default:
		return types.DisplayWaiting
	}
}

// IsAllSuccessful is true once every queued archive has a succeeded outcome.
func IsAllSuccessful(s types.RunState) bool {
	total := len(s.Queue)
	if total == 0 || len(s.Outcomes) != total {
		return false
	}
	for _, o := range s.Outcomes {
		if o.Status != types.OutcomeSucceeded {
			return false
		}
	}
	return true
}

// Project builds the full progress view from a snapshot.
func Project(s types.RunState) types.ProgressView {
	rows := make([]types.ProgressRow, 0, len(s.Queue))
	for i, item := range s.Queue {
		status := ItemDisplayStatus(s, i)
		row := types.ProgressRow{
			Index:  i,
			Name:   item.Name,
			Status: status,
			Class:  status.Class(),
		}
		if i < len(s.Outcomes) && s.Outcomes[i].Error != nil {
			row.Error = s.Outcomes[i].Error.Summary()
		}
		rows = append(rows, row)
	}
	return types.ProgressView{
		RunID:           s.RunID,
		Label:           ProgressLabel(s),
		IsRunning:       s.IsRunning,
		IsAllSuccessful: IsAllSuccessful(s),
		DragActive:      s.DragActive,
		CurrentIndex:    s.CurrentIndex,
		Total:           len(s.Queue),
		Completed:       len(s.Outcomes),
		Rows:            rows,
	}
}
