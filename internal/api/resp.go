package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": msg})
}

func badRequest(c *gin.Context, msg string) {
	fail(c, http.StatusBadRequest, msg)
}

func notFound(c *gin.Context, msg string) {
	fail(c, http.StatusNotFound, msg)
}

// serverError hides internal detail from the client; it is logged instead
func serverError(c *gin.Context, err error) {
	log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	fail(c, http.StatusInternalServerError, "internal error")
}
