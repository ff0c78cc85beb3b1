package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/zipconsole/api/models"
	"github.com/moyoez/zipconsole/share"
	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

// ConsoleStatus returns server status for the web UI.
// GET /api/console/v1/status
func ConsoleStatus(c *gin.Context) {
	cfg := tool.GetCurrentConfig()
	resp := gin.H{
		"running":           true,
		"notify_ws_enabled": cfg.NotifyWebsocket && models.GetNotifyHub() != nil,
		"authorized":        share.GetSession().Authorized(),
		"server_url":        cfg.ServerURL,
	}
	if ctrl := models.GetController(); ctrl != nil {
		progress := ctrl.Progress()
		resp["uploading"] = progress.IsRunning
		resp["progress_label"] = progress.Label
	}
	c.JSON(http.StatusOK, resp)
}

// ConsoleConfigGet returns the config from config.yaml.
// GET /api/console/v1/config
func ConsoleConfigGet(c *gin.Context) {
	c.JSON(http.StatusOK, configResponse(tool.GetCurrentConfig()))
}

// ConsoleConfigPatch accepts a partial config and persists it to config.yaml.
// PATCH /api/console/v1/config
func ConsoleConfigPatch(c *gin.Context) {
	var body types.ConfigPatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}

	cfg, err := tool.ApplyConfigPatch(tool.GetCurrentConfig(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	if err := tool.PersistAppConfig(cfg); err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to persist config: "+err.Error()))
		return
	}
	models.ApplyConfig(cfg)
	share.SetListingTTL(tool.ListingTTL(cfg))
	c.JSON(http.StatusOK, configResponse(cfg))
}

func configResponse(cfg types.AppConfig) types.ConfigResponse {
	return types.ConfigResponse{
		ServerURL:            cfg.ServerURL,
		DetailsBaseURL:       cfg.DetailsBaseURL,
		Port:                 cfg.Port,
		UploadTimeoutSeconds: cfg.UploadTimeoutSeconds,
		UploadsPerSecond:     cfg.UploadsPerSecond,
		CacheTTLSeconds:      cfg.CacheTTLSeconds,
		NotifyWebsocket:      cfg.NotifyWebsocket,
		NotifySocketPath:     cfg.NotifySocketPath,
	}
}
