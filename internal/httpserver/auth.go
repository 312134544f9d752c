package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountsvc "petmarket/internal/service/account"
)

type authHandlers struct {
	accounts AccountService
	carts    CartService
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn"`
}

func (h authHandlers) signup(c *gin.Context) {
	var in accountsvc.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.accounts.Signup(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

// login also adopts the caller's guest cart when an X-Guest-Token header rides
// along, so nothing added before signing in is lost.
func (h authHandlers) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "email and password required")
		return
	}
	u, access, refresh, err := h.accounts.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if guestToken := c.GetHeader("X-Guest-Token"); guestToken != "" {
		if guestID, err := h.accounts.LookupGuest(c.Request.Context(), guestToken); err == nil {
			if err := h.carts.Merge(c.Request.Context(), guestID, u.ID); err != nil {
				respondServiceError(c, err)
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": u,
		"token": tokenResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    h.accounts.AccessTTLSeconds(),
		},
	})
}

func (h authHandlers) refresh(c *gin.Context) {
	var in struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "refreshToken required")
		return
	}
	u, access, refresh, err := h.accounts.Refresh(c.Request.Context(), in.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": u,
		"token": tokenResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    h.accounts.AccessTTLSeconds(),
		},
	})
}

func (h authHandlers) guest(c *gin.Context) {
	token, guestID, err := h.accounts.IssueGuest(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"guestId": guestID, "token": tokenResponse{AccessToken: token}})
}

func (h authHandlers) me(c *gin.Context) {
	u, _ := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": u})
}
