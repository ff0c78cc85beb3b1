package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/zipconsole/api/models"
	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
	"github.com/moyoez/zipconsole/upload"
)

const uploadInProgressMsg = "Upload in progress, selection is disabled"

// QueueSelect replaces the queue with the .zip files chosen in the file picker.
// POST /api/console/v1/queue/select (multipart, field "files")
func QueueSelect(c *gin.Context) {
	queueFromForm(c, types.InputSourcePicker)
}

// QueueDrop replaces the queue with the .zip files dropped on the drop zone.
// POST /api/console/v1/queue/drop (multipart, field "files")
func QueueDrop(c *gin.Context) {
	queueFromForm(c, types.InputSourceDrop)
}

// QueuePaths queues local archives by path or file:// URL.
// POST /api/console/v1/queue/paths
func QueuePaths(c *gin.Context) {
	ctrl := models.GetController()
	var body types.QueuePathsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	candidates := make([]types.Candidate, 0, len(body.Paths))
	for _, p := range body.Paths {
		candidates = append(candidates, upload.PathCandidate(p))
	}
	rejection, err := models.ReplaceQueue(types.InputSourcePaths, candidates, "")
	if err != nil {
		respondQueueError(c, ctrl, err)
		return
	}
	respondQueue(c, ctrl, rejection)
}

// QueueDrag toggles the drag-over indicator.
// PUT /api/console/v1/queue/drag
func QueueDrag(c *gin.Context) {
	ctrl := models.GetController()
	var body types.DragRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	ctrl.SetDragActive(body.Active)
	c.JSON(http.StatusOK, types.QueueResponse{Progress: ctrl.Progress()})
}

// QueueReset clears the queue and the last results.
// DELETE /api/console/v1/queue
func QueueReset(c *gin.Context) {
	ctrl := models.GetController()
	if err := models.ResetQueue(); err != nil {
		respondQueueError(c, ctrl, err)
		return
	}
	c.JSON(http.StatusOK, types.QueueResponse{Progress: ctrl.Progress()})
}

func queueFromForm(c *gin.Context, source types.InputSource) {
	ctrl := models.GetController()
	if ctrl.IsRunning() {
		if source == types.InputSourceDrop {
			ctrl.SetDragActive(false)
		}
		respondQueueBusy(c, ctrl)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid multipart form: "+err.Error()))
		return
	}
	files := form.File["files"]

	batchDir, err := models.NewSpoolBatch()
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		return
	}
	candidates := make([]types.Candidate, 0, len(files))
	for _, fh := range files {
		cand, err := spoolCandidate(c, batchDir, fh)
		if err != nil {
			models.DiscardSpoolBatch(batchDir)
			tool.DefaultLogger.Errorf("[Queue] %v", err)
			c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
			return
		}
		candidates = append(candidates, cand)
	}

	rejection, err := models.ReplaceQueue(source, candidates, batchDir)
	if err != nil {
		respondQueueError(c, ctrl, err)
		return
	}
	respondQueue(c, ctrl, rejection)
}

// spoolCandidate copies a .zip form file to batchDir. Other files only contribute their name.
func spoolCandidate(c *gin.Context, batchDir string, fh *multipart.FileHeader) (types.Candidate, error) {
	cand := types.Candidate{Name: fh.Filename, Size: fh.Size}
	if !upload.IsZipName(fh.Filename) {
		return cand, nil
	}
	src, err := fh.Open()
	if err != nil {
		return cand, fmt.Errorf("failed to open %s: %v", fh.Filename, err)
	}
	defer src.Close()
	path, written, err := tool.SpoolFile(c.Request.Context(), batchDir, fh.Filename, src)
	if err != nil {
		return cand, err
	}
	cand.Size = written
	cand.Source = upload.PathSource(path)
	return cand, nil
}

func respondQueue(c *gin.Context, ctrl *upload.Controller, rejection types.Rejection) {
	resp := types.QueueResponse{
		Rejection: &rejection,
		Notice:    upload.RejectionNotice(rejection.Rejected),
		Progress:  ctrl.Progress(),
	}
	c.JSON(http.StatusOK, resp)
}

func respondQueueBusy(c *gin.Context, ctrl *upload.Controller) {
	c.JSON(http.StatusConflict, tool.FastReturnErrorWithData(uploadInProgressMsg, map[string]any{
		"progress": ctrl.Progress(),
	}))
}

func respondQueueError(c *gin.Context, ctrl *upload.Controller, err error) {
	if models.IsRunBusy(err) {
		respondQueueBusy(c, ctrl)
		return
	}
	tool.DefaultLogger.Errorf("[Queue] %v", err)
	c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
}
