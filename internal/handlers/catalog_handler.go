package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/catalog"
)

func listCatalog(c *gin.Context) {
	category := catalog.Category(c.DefaultQuery("category", string(catalog.CategoryAll)))
	if category != "" && !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": catalog.ByCategory(category)})
}
