package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/moyoez/zipconsole/tool"
)

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// ZipDetailsQRCode returns a PNG QR code of the zip details page link.
// GET /api/console/v1/zip/:zip_file_id/qr?size=200x200
func ZipDetailsQRCode(c *gin.Context) {
	zipFileID := strings.TrimSpace(c.Param("zip_file_id"))
	base := tool.GetCurrentConfig().DetailsBaseURL
	if base == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("detailsBaseURL is not configured"))
		return
	}
	link, err := tool.BuildZipDetailsLink(base, zipFileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}

	size := parseSize(c.Query("size"))
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// parseSize parses size from "200x200" or "200" and returns the pixel dimension.
func parseSize(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if idx := strings.Index(s, "x"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
