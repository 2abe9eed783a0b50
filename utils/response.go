package utils

import "github.com/gin-gonic/gin"

// Error writes the collector's wire-contract error body {"error": message}.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}
