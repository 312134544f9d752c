package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogsvc "petmarket/internal/service/catalog"
)

type categoryHandlers struct {
	svc CatalogService
}

func (h categoryHandlers) tree(c *gin.Context) {
	nodes, err := h.svc.Tree(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": nodes})
}

// flat serves the admin tree-table: pre-order, depth annotated.
func (h categoryHandlers) flat(c *gin.Context) {
	rows, err := h.svc.Flat(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": rows})
}

func (h categoryHandlers) children(c *gin.Context) {
	kids, err := h.svc.Children(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": kids})
}

func (h categoryHandlers) upsert(c *gin.Context) {
	var in catalogsvc.UpsertInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	cat, err := h.svc.Upsert(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (h categoryHandlers) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
