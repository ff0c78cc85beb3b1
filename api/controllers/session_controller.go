package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/zipconsole/share"
	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

// SessionCreate stores the token and customer id the web UI received from the login call.
// The phone number and password are run through the login form checks so a malformed
// sign-in is refused here too, then dropped; the server already issued the token and
// only the token and customer id are persisted.
// POST /api/console/v1/session
func SessionCreate(c *gin.Context) {
	var body types.SessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if err := share.ValidateLoginInput(body.PhoneNumber, body.Password); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	if strings.TrimSpace(body.AccessToken) == "" || strings.TrimSpace(body.CustomerUUID) == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Something went wrong!, Please login again"))
		return
	}

	if err := share.SetSession(types.Session{AccessToken: body.AccessToken, CustomerUUID: body.CustomerUUID}); err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		return
	}
	tool.DefaultLogger.Infof("[Session] Signed in as customer %s", strings.TrimSpace(body.CustomerUUID))
	c.JSON(http.StatusOK, tool.FastReturnNotice(types.NotifyLevelSuccess, "Sign-in successful!", sessionView(share.GetSession())))
}

// SessionGet reports whether a token is stored.
// GET /api/console/v1/session
func SessionGet(c *gin.Context) {
	c.JSON(http.StatusOK, sessionView(share.GetSession()))
}

// SessionDelete logs out.
// DELETE /api/console/v1/session
func SessionDelete(c *gin.Context) {
	if err := share.ClearSession(); err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		return
	}
	share.InvalidateListings()
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

func sessionView(s types.Session) gin.H {
	return gin.H{
		"authorized":    s.Authorized(),
		"customer_uuid": s.CustomerUUID,
	}
}
