package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-list/internal/model"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type telegramLinkResponse struct {
	Code      string    `json:"code"`
	Command   string    `json:"command"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *handler) register(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	user, token, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("user registered", "user", user.ID)
	c.JSON(http.StatusCreated, tokenResponse{Token: token, User: user})
}

func (h *handler) login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token, User: user})
}

func (h *handler) getAccount(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// issueTelegramLink returns the command the user sends to the bot from the
// chat that should receive digests.
func (h *handler) issueTelegramLink(c *gin.Context) {
	link, err := h.accounts.IssueTelegramLink(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, telegramLinkResponse{
		Code:      link.Code,
		Command:   fmt.Sprintf("/start %s", link.Code),
		ExpiresAt: link.ExpiresAt,
	})
}

func (h *handler) unlinkTelegram(c *gin.Context) {
	user, err := h.accounts.UnlinkTelegram(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) deleteAccount(c *gin.Context) {
	user := currentUser(c)
	if err := h.accounts.Delete(c.Request.Context(), user); err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("user deleted", "user", user.ID)
	c.Status(http.StatusNoContent)
}
