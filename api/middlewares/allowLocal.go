package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/zipconsole/tool"
)

func OnlyAllowLocal(c *gin.Context) {
	if tool.IsLoopbackHost(c.ClientIP()) {
		c.Next()
	} else {
		c.AbortWithStatusJSON(http.StatusForbidden, tool.FastReturnError("Forbidden"))
	}
}
