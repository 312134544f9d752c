package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"petmarket/internal/domain"
	petsvc "petmarket/internal/service/pet"
)

type petHandlers struct {
	svc        PetService
	categories CatalogService
}

// list is the storefront listing. Filters come in as query params; the
// "section" param names a storefront root by slug and is ignored when it does
// not resolve, so stale links degrade to the unfiltered listing.
func (h petHandlers) list(c *gin.Context) {
	q := petsvc.ListQuery{
		Keyword:    c.Query("keyword"),
		CategoryID: c.Query("category"),
		SellerID:   c.Query("seller"),
		Gender:     c.Query("gender"),
		City:       c.Query("city"),
		Sort:       c.Query("sort"),
		PriceMin:   queryInt64(c, "priceMin"),
		PriceMax:   queryInt64(c, "priceMax"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	}
	if raw := c.Query("detailCategories"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				q.DetailCategoryIDs = append(q.DetailCategoryIDs, id)
			}
		}
	}
	if section := c.Query("section"); section != "" && q.CategoryID == "" {
		root, err := h.categories.RootBySlug(c.Request.Context(), section)
		switch {
		case err == nil:
			q.CategoryID = root.ID
		case !errors.Is(err, domain.ErrNotFound):
			respondServiceError(c, err)
			return
		}
	}

	page, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h petHandlers) get(c *gin.Context) {
	pet, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pet": pet})
}

func (h petHandlers) create(c *gin.Context) {
	var in petsvc.SaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	pet, err := h.svc.Create(c.Request.Context(), sellerScope(c), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pet": pet})
}

func (h petHandlers) update(c *gin.Context) {
	var in petsvc.SaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	pet, err := h.svc.Update(c.Request.Context(), sellerScope(c), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pet": pet})
}

func (h petHandlers) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), sellerScope(c), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sellerScope is the ownership filter for listing writes: the seller's own id,
// or empty for admins, which bypasses the check.
func sellerScope(c *gin.Context) string {
	u, _ := currentUser(c)
	if u == nil || u.Role == domain.RoleAdmin {
		return ""
	}
	return u.ID
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

func queryInt64(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
