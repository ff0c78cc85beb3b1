package upload

import (
	"fmt"
	"strings"

	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

const (
	zipSuffix        = ".zip"
	maxRejectedNames = 3
	unknownFileName  = "Unknown file"
)

// IsZipName reports whether name ends in .zip, ignoring case.
func IsZipName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), zipSuffix)
}

// Partition splits candidates into accepted queue items, in input order, and rejected names.
func Partition(candidates []types.Candidate) ([]types.QueueItem, []string) {
	accepted := make([]types.QueueItem, 0, len(candidates))
	var rejected []string
	for _, cand := range candidates {
		if IsZipName(cand.Name) {
			accepted = append(accepted, types.QueueItem{
				Name:    cand.Name,
				Size:    cand.Size,
				Payload: cand.Source,
			})
			continue
		}
		name := cand.Name
		if name == "" {
			name = unknownFileName
		}
		rejected = append(rejected, name)
	}
	return accepted, rejected
}

// RejectionNotice formats the warning shown for rejected files, or "" when nothing was rejected.
func RejectionNotice(rejected []string) string {
	if len(rejected) == 0 {
		return ""
	}
	shown := rejected[:min(len(rejected), maxRejectedNames)]
	msg := "Only .zip files allowed. Ignored: " + strings.Join(shown, ", ")
	if extra := len(rejected) - maxRejectedNames; extra > 0 {
		msg += fmt.Sprintf(" and %d more", extra)
	}
	return msg
}

// ValidateAndSetQueue replaces the queue with the .zip files among candidates.
// When nothing is accepted the queue is left untouched. Returns ErrAlreadyRunning,
// without looking at the candidates, while a run is in progress.
func (c *Controller) ValidateAndSetQueue(source types.InputSource, candidates []types.Candidate) (types.Rejection, error) {
	c.mu.Lock()
	if source == types.InputSourceDrop {
		c.dragActive = false
	}
	if c.running {
		c.mu.Unlock()
		tool.DefaultLogger.Debugf("[Queue] Ignoring %s selection while uploading", source)
		return types.Rejection{}, ErrAlreadyRunning
	}
	c.mu.Unlock()

	accepted, rejected := Partition(candidates)
	rejection := types.Rejection{Accepted: len(accepted), Rejected: rejected}

	if len(rejected) > 0 {
		tool.DefaultLogger.Warnf("[Queue] Rejected %d non-zip file(s) from %s", len(rejected), source)
		if c.opts.Recorder != nil {
			c.opts.Recorder.ObserveRejected(len(rejected))
		}
		c.notify(&types.Notification{
			ID:      tool.GenerateRandomUUID(),
			Type:    types.NotifyTypeQueueRejected,
			Level:   types.NotifyLevelWarning,
			Title:   "Files ignored",
			Message: RejectionNotice(rejected),
			Data: map[string]any{
				"source":   string(source),
				"rejected": rejected,
			},
		})
	}
	if len(accepted) == 0 {
		if source == types.InputSourceDrop {
			c.changed()
		}
		return rejection, nil
	}

	c.mu.Lock()
	if c.running {
		// a run started between validation and here
		c.mu.Unlock()
		return types.Rejection{}, ErrAlreadyRunning
	}
	c.queue = accepted
	c.outcomes = nil
	c.currentIndex = 0
	c.runID = ""
	c.mu.Unlock()

	tool.DefaultLogger.Infof("[Queue] %d archive(s) queued from %s", len(accepted), source)
	c.notify(&types.Notification{
		ID:      tool.GenerateRandomUUID(),
		Type:    types.NotifyTypeQueueSet,
		Level:   types.NotifyLevelInfo,
		Message: ProgressLabel(c.Snapshot()),
		Data: map[string]any{
			"source": string(source),
			"total":  len(accepted),
		},
	})
	c.changed()
	return rejection, nil
}

// SetDragActive toggles the drag indicator. Drag-over is ignored during a run.
func (c *Controller) SetDragActive(active bool) {
	c.mu.Lock()
	if active && c.running {
		c.mu.Unlock()
		return
	}
	if c.dragActive == active {
		c.mu.Unlock()
		return
	}
	c.dragActive = active
	c.mu.Unlock()
	c.changed()
}

// Reset clears the queue and the outcomes. It is ignored while a run is in progress.
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.queue = nil
	c.outcomes = nil
	c.currentIndex = 0
	c.runID = ""
	c.mu.Unlock()

	tool.DefaultLogger.Debugf("[Queue] Reset")
	c.notify(&types.Notification{
		ID:    tool.GenerateRandomUUID(),
		Type:  types.NotifyTypeQueueReset,
		Level: types.NotifyLevelInfo,
	})
	c.changed()
	return nil
}
