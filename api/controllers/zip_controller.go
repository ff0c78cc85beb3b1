package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/zipconsole/api/models"
	"github.com/moyoez/zipconsole/share"
	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

// ZipDetailsGet lists the documents extracted from one archive as cards.
// GET /api/console/v1/zip/:zip_file_id
func ZipDetailsGet(c *gin.Context) {
	zipFileID := strings.TrimSpace(c.Param("zip_file_id"))

	docs, ok := share.GetDocumentListing(zipFileID)
	if !ok || c.Query("refresh") == "true" {
		var err error
		docs, err = models.GetClient().ListZipDocuments(c.Request.Context(), zipFileID)
		if err != nil {
			tool.DefaultLogger.Warnf("[ZipDetails] Failed to list documents of %s: %v", zipFileID, err)
			respondUpstreamError(c, "Failed to load documents.", err)
			return
		}
		share.SetDocumentListing(zipFileID, docs)
	}

	cards := tool.BuildDocumentCards(zipFileID, docs)
	resp := types.ZipDetailsResponse{
		ZipFileID: zipFileID,
		Total:     len(cards),
		Cards:     cards,
	}
	if base := tool.GetCurrentConfig().DetailsBaseURL; base != "" {
		if link, err := tool.BuildZipDetailsLink(base, zipFileID); err == nil {
			resp.DetailsURL = link
		}
	}
	c.JSON(http.StatusOK, resp)
}
