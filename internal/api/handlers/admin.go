package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// audit records an admin action. A failed write is logged and otherwise
// ignored so the action itself still answers.
func audit(c *gin.Context, d *Deps, action string, details map[string]any, success bool) {
	if d.Admin == nil {
		return
	}
	name := c.GetString(ctxAdmin)
	if err := d.Admin.LogAction(c.Request.Context(), name, c.ClientIP(), c.FullPath(), action, details, success); err != nil {
		d.Log.Warn("audit write failed", zap.String("admin", name), zap.String("action", action), zap.Error(err))
	}
}

// GetAuditLogs returns a page of the admin audit trail.
func GetAuditLogs(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Admin == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin accounts unavailable"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > 200 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}
		logs, err := d.Admin.AuditLogs(c.Request.Context(), limit, offset)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit, "offset": offset})
	}
}
