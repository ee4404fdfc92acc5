// Package handlers translates HTTP requests into data-layer calls. Every
// response uses the storefront envelope: {"success": true, "data": ...} or
// {"success": false, "error": "..."}.
package handlers

import "github.com/gin-gonic/gin"

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
