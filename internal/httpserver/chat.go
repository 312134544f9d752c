package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatHandlers struct {
	svc ChatService
}

type openConversationRequest struct {
	SellerID string `json:"sellerId" binding:"required"`
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h chatHandlers) open(c *gin.Context) {
	var in openConversationRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "sellerId required")
		return
	}
	u, _ := currentUser(c)
	conv, err := h.svc.Open(c.Request.Context(), u.ID, in.SellerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

func (h chatHandlers) list(c *gin.Context) {
	u, _ := currentUser(c)
	convs, err := h.svc.List(c.Request.Context(), u.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (h chatHandlers) messages(c *gin.Context) {
	u, _ := currentUser(c)
	msgs, err := h.svc.Messages(c.Request.Context(), u.ID, c.Param("id"), queryInt(c, "limit"), c.Query("before"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h chatHandlers) send(c *gin.Context) {
	var in sendMessageRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "body required")
		return
	}
	u, _ := currentUser(c)
	msg, err := h.svc.Send(c.Request.Context(), u.ID, c.Param("id"), in.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// stream pushes live messages for one conversation over server-sent events.
func (h chatHandlers) stream(c *gin.Context) {
	u, _ := currentUser(c)
	ch, cancel, err := h.svc.Subscribe(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
