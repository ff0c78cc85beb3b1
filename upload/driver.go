package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

const noFilesNotice = "Please select .zip files to upload"

// UploadFunc sends one archive to the processing server and returns its response payload.
type UploadFunc func(ctx context.Context, item types.QueueItem) (any, error)

// Start uploads every queued archive strictly in queue order, one at a time.
// A failed archive is recorded and the run moves on; nothing aborts a run once
// started. Outcomes are published as they are recorded and the full list is
// returned when the last archive has resolved.
//
// Start returns ErrNoFiles for an empty queue and ErrAlreadyRunning when a run
// is in progress; neither changes any state.
func (c *Controller) Start(ctx context.Context, uploadOne UploadFunc) ([]types.UploadOutcome, error) {
	if uploadOne == nil {
		return nil, fmt.Errorf("upload: nil upload function")
	}

	c.mu.Lock()
	if c.running {
		runID := c.runID
		c.mu.Unlock()
		tool.DefaultLogger.Debugf("[Upload] Start ignored, run %s in progress", runID)
		return nil, ErrAlreadyRunning
	}
	if len(c.queue) == 0 {
		c.mu.Unlock()
		c.notify(&types.Notification{
			ID:      tool.GenerateRandomUUID(),
			Type:    types.NotifyTypeNoFiles,
			Level:   types.NotifyLevelInfo,
			Message: noFilesNotice,
		})
		return nil, ErrNoFiles
	}
	queue := c.queue
	timeout := c.opts.ItemTimeout
	runID := tool.GenerateShortRunID()
	c.running = true
	c.runID = runID
	c.currentIndex = 0
	c.outcomes = make([]types.UploadOutcome, 0, len(queue))
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		c.changed()
	}()

	tool.DefaultLogger.Infof("[Upload] Run %s started with %d archive(s)", runID, len(queue))
	c.notify(&types.Notification{
		ID:    tool.GenerateRandomUUID(),
		Type:  types.NotifyTypeUploadStart,
		Level: types.NotifyLevelInfo,
		Data: map[string]any{
			"runId": runID,
			"total": len(queue),
		},
	})
	c.changed()

	results := make([]types.UploadOutcome, 0, len(queue))
	for i, item := range queue {
		c.mu.Lock()
		c.currentIndex = i
		c.mu.Unlock()
		c.changed()

		outcome := c.attempt(ctx, timeout, uploadOne, item)
		results = append(results, outcome)

		c.mu.Lock()
		c.outcomes = append(c.outcomes, outcome)
		c.mu.Unlock()

		if outcome.Status == types.OutcomeFailed {
			tool.DefaultLogger.Warnf("[Upload] %s failed (%d/%d): %s", item.Name, i+1, len(queue), outcome.Error.Summary())
		} else {
			tool.DefaultLogger.Infof("[Upload] %s uploaded (%d/%d)", item.Name, i+1, len(queue))
		}
		c.notify(itemNotification(runID, i, len(queue), outcome))
		c.changed()
	}
	return results, nil
}

// attempt runs uploadOne for a single item. A panic inside uploadOne is recorded
// as a failed outcome like any other error.
func (c *Controller) attempt(ctx context.Context, timeout time.Duration, uploadOne UploadFunc, item types.QueueItem) (outcome types.UploadOutcome) {
	itemCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		itemCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	rec := c.opts.Recorder
	if rec != nil {
		rec.StartItem()
		started := time.Now()
		defer func() { rec.FinishItem(time.Since(started), outcome.Status) }()
	}
	defer func() {
		if r := recover(); r != nil {
			outcome = failedOutcome(item.Name, r)
		}
	}()

	data, err := uploadOne(itemCtx, item)
	if err != nil {
		return failedOutcome(item.Name, err)
	}
	return types.UploadOutcome{
		FileName: item.Name,
		Status:   types.OutcomeSucceeded,
		Data:     data,
	}
}

func failedOutcome(name string, failure any) types.UploadOutcome {
	detail := ExtractFailure(failure)
	return types.UploadOutcome{
		FileName: name,
		Status:   types.OutcomeFailed,
		Error:    &detail,
	}
}

func itemNotification(runID string, index, total int, outcome types.UploadOutcome) *types.Notification {
	n := &types.Notification{
		ID:   tool.GenerateRandomUUID(),
		Type: types.NotifyTypeUploadItem,
		Data: map[string]any{
			"runId":    runID,
			"index":    index,
			"total":    total,
			"fileName": outcome.FileName,
			"status":   string(outcome.Status),
		},
	}
	if outcome.Status == types.OutcomeFailed {
		n.Level = types.NotifyLevelError
		n.Message = fmt.Sprintf("%s failed to upload", outcome.FileName)
		n.Data["error"] = outcome.Error.Summary()
	} else {
		n.Level = types.NotifyLevelSuccess
		n.Message = fmt.Sprintf("%s uploaded", outcome.FileName)
	}
	return n
}
