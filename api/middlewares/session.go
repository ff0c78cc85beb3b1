package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/zipconsole/share"
	"github.com/moyoez/zipconsole/tool"
)

// RequireSession rejects requests while no access token is stored.
func RequireSession(c *gin.Context) {
	if !share.GetSession().Authorized() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("Not logged in"))
		return
	}
	c.Next()
}
