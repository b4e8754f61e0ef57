package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"octopus-dashboard/internal/api/models"
	"octopus-dashboard/internal/credentials"
)

// CredentialsHandler saves and retrieves the encrypted credentials cookie.
type CredentialsHandler struct {
	store *credentials.CookieStore
}

// NewCredentialsHandler creates a handler backed by the given cookie store.
func NewCredentialsHandler(store *credentials.CookieStore) *CredentialsHandler {
	return &CredentialsHandler{store: store}
}

// Save handles POST /api/save-credentials.
func (h *CredentialsHandler) Save(c *gin.Context) {
	var req models.SaveCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	log.Printf("[API] Saving credentials for account %s", req.AccountNumber)

	creds := &credentials.Credentials{
		APIKey:          req.APIKey,
		MPAN:            req.MPAN,
		SerialNumber:    req.SerialNumber,
		AccountNumber:   req.AccountNumber,
		MPRN:            req.MPRN,
		GasSerialNumber: req.GasSerialNumber,
	}
	if err := h.store.Write(c, creds); err != nil {
		log.Printf("[API] Failed to save credentials: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save credentials"})
		return
	}
	c.JSON(http.StatusOK, models.SaveCredentialsResponse{Success: true})
}

// Get handles GET /api/credentials. An absent or unreadable cookie yields
// a 200 with a null body, never an error status.
func (h *CredentialsHandler) Get(c *gin.Context) {
	creds, err := h.store.Read(c)
	if err != nil {
		if err != credentials.ErrNoCookie {
			log.Printf("[API] Ignoring unreadable credentials cookie: %v", err)
		}
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, creds)
}
