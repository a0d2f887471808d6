package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fooddrop/delivery-api/apperr"
)

// parseID reads the :id path parameter. On a malformed value it writes
// a 400 and returns false.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// respondError maps an application error to the HTTP boundary.
// Internal errors get a generic message; nothing leaks.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Something went wrong"
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondMessage sends a bare failure with an explicit status.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondData sends a success envelope.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondList sends a success envelope with list pagination fields.
func respondList(c *gin.Context, count int, total, pages int64, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   count,
		"total":   total,
		"pages":   pages,
		"data":    data,
	})
}
