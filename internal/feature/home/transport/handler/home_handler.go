// Package handler renders the home dashboard.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fluxfinance/internal/platform/gate"
)

// Home renders the dashboard with the main menu.
// The sign-in or sign-out control depends on the gate verdict.
func Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.tmpl", gin.H{
		"Title":         "Home",
		"Authenticated": gate.IsAuthenticated(c),
	})
}
