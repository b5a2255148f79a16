package encrypt

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Encrypter interface {
	Encrypt(plaintext string) (string, error)
}

type Handler struct {
	// Vault is nil when ENCRYPTION_KEY is not configured.
	Vault Encrypter
	Log   *slog.Logger
}

// POST /api/encrypt {text}
func (h *Handler) Encrypt(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing text"})
		return
	}

	if h.Vault == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Encryption key not configured"})
		return
	}

	encrypted, err := h.Vault.Encrypt(body.Text)
	if err != nil {
		h.Log.Error("encrypt failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Encryption failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"encrypted": encrypted})
}
