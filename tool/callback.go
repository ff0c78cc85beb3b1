package tool

import (
	"maps"

	"github.com/gin-gonic/gin"
)

func FastReturnError(msg string) gin.H {
	return gin.H{
		"error": msg,
	}
}

func FastReturnSuccess() gin.H {
	return gin.H{
		"status": "ok",
	}
}

func FastReturnErrorWithData(msg string, data map[string]any) gin.H {
	resp := gin.H{
		"error": msg,
	}
	maps.Copy(resp, data)
	return resp
}

// FastReturnNotice mirrors a toast: the UI shows message with the given level.
func FastReturnNotice(level, msg string, data any) gin.H {
	resp := gin.H{
		"notice": gin.H{"level": level, "message": msg},
	}
	if data != nil {
		resp["data"] = data
	}
	return resp
}
