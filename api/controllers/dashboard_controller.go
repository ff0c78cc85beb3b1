package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/zipconsole/api/models"
	"github.com/moyoez/zipconsole/share"
	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/transfer"
	"github.com/moyoez/zipconsole/types"
)

// DashboardGet lists the archives uploaded by a customer with their processing status.
// GET /api/console/v1/dashboard/:user_id?search=&refresh=true
func DashboardGet(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	search := strings.TrimSpace(c.Query("search"))

	records, ok := share.GetZipListing(userID)
	if !ok || c.Query("refresh") == "true" {
		var err error
		records, err = models.GetClient().ListZipFiles(c.Request.Context(), userID)
		if err != nil {
			tool.DefaultLogger.Warnf("[Dashboard] Failed to list archives of %s: %v", userID, err)
			respondUpstreamError(c, "Failed to load data.", err)
			return
		}
		share.SetZipListing(userID, records)
	}

	rows := tool.BuildZipFileRows(records, search)
	c.JSON(http.StatusOK, types.DashboardResponse{
		UserID:     userID,
		Search:     search,
		Rows:       rows,
		EmptyLabel: tool.EmptyListingLabel(rows, search),
	})
}

// respondUpstreamError maps a processing server failure to a console API error.
// 401/403 from the server are passed through so the UI can send the user back to login.
func respondUpstreamError(c *gin.Context, msg string, err error) {
	status := http.StatusBadGateway
	data := map[string]any{"detail": err.Error()}
	var respErr *transfer.ResponseError
	if errors.As(err, &respErr) {
		if respErr.StatusCode == http.StatusUnauthorized || respErr.StatusCode == http.StatusForbidden {
			status = respErr.StatusCode
		}
		if respErr.Body != nil {
			data["server"] = respErr.Body
		}
	} else if transfer.IsCircuitOpen(err) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, tool.FastReturnErrorWithData(msg, data))
}
