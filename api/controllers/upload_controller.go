package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/zipconsole/api/models"
	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
	"github.com/moyoez/zipconsole/upload"
)

const noFilesMsg = "Please select .zip files to upload"

// UploadStart uploads the queued archives one by one.
// POST /api/console/v1/upload/start[?wait=true]
// Without wait the run continues in the background and 202 is returned; progress
// is then polled or pushed over notify-ws. Starting while a run is in progress is a no-op.
func UploadStart(c *gin.Context) {
	ctrl := models.GetController()
	state := ctrl.Snapshot()

	if c.Query("wait") == "true" {
		// the run outlives a disconnected client
		report, err := models.RunQueue(context.WithoutCancel(c.Request.Context()))
		switch {
		case errors.Is(err, upload.ErrNoFiles):
			c.JSON(http.StatusOK, types.UploadResponse{Notice: noFilesMsg, Progress: ctrl.Progress()})
		case models.IsRunBusy(err):
			c.JSON(http.StatusAccepted, types.UploadResponse{Progress: ctrl.Progress()})
		case err != nil:
			c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		default:
			c.JSON(http.StatusOK, types.UploadResponse{Started: true, Report: &report, Progress: ctrl.Progress()})
		}
		return
	}

	switch {
	case state.IsRunning:
		c.JSON(http.StatusAccepted, types.UploadResponse{Progress: ctrl.Progress()})
	case len(state.Queue) == 0:
		// publishes the no_files notice
		_, _ = models.RunQueue(c.Request.Context())
		c.JSON(http.StatusOK, types.UploadResponse{Notice: noFilesMsg, Progress: ctrl.Progress()})
	default:
		models.StartRunAsync()
		c.JSON(http.StatusAccepted, types.UploadResponse{Started: true, Progress: ctrl.Progress()})
	}
}

// UploadProgress returns the upload list projection and, after a run, its report.
// GET /api/console/v1/upload/progress
func UploadProgress(c *gin.Context) {
	ctrl := models.GetController()
	state := ctrl.Snapshot()
	resp := types.UploadResponse{Progress: upload.Project(state)}
	if !state.IsRunning && len(state.Outcomes) > 0 {
		report := upload.AggregateReport(state.Outcomes)
		resp.Report = &report
	}
	c.JSON(http.StatusOK, resp)
}
