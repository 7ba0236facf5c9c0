package handlers

import (
	"context"
	"net/http"

	"quiz_webapp/internal/account"
	"quiz_webapp/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Menu returns the account menu of the signed-in user.
func (h *Handler) Menu(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, account.Build(sess))
}

// SignOut starts session termination and answers with the redirect path
// right away, without waiting for termination to finish.
func (h *Handler) SignOut(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var redirect string
	h.Account.SignOut(sess, account.NavigatorFunc(func(path string) {
		redirect = path
	}))

	h.Audit.LogLogout(context.Background(), sess.UserID)

	c.JSON(http.StatusOK, gin.H{"redirect": redirect})
}
