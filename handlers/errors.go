package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// domainCoder is satisfied by the typed errors of the service packages.
type domainCoder interface {
	DomainCode() string
	error
}

// writeDomainError translates a service error into a stable code plus message.
// The core never formats UI-facing text; that stays up here.
func writeDomainError(c *gin.Context, err error) {
	var dc domainCoder
	if !errors.As(err, &dc) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch dc.DomainCode() {
	case "invalidArgument", "businessRule":
		status = http.StatusBadRequest
	case "notFound":
		status = http.StatusNotFound
	case "conflict":
		status = http.StatusConflict
	case "transient":
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": dc.Error(), "code": dc.DomainCode()})
}
