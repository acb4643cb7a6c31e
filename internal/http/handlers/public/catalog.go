package public

import (
	"fmt"
	"net/http"
	"time"

	"github.com/veloshop-next/internal/cache"
	"github.com/veloshop-next/internal/http/handlers/shared"
	"github.com/veloshop-next/internal/http/response"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/repository"
	"github.com/veloshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	catalogCacheTTL = 60 * time.Second
)

// PublicProductView 公共商品响应结构
type PublicProductView struct {
	models.Product
	EffectivePrice models.Money `json:"effective_price"`
	InStock        bool         `json:"in_stock"`
}

// ListProducts 商品列表(仅上架商品)
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	keyword := c.Query("keyword")

	cacheKey := cache.BuildKey("catalog", "products", fmt.Sprintf("%d:%d:%s", page, pageSize, keyword))
	var cached response.PageResponse
	if keyword == "" {
		if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, total, err := h.ProductRepo.List(repository.ProductListFilter{
		Keyword:    keyword,
		ActiveOnly: true,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.catalog_fetch_failed", err)
		return
	}

	views := make([]PublicProductView, 0, len(products))
	for i := range products {
		views = append(views, buildProductView(&products[i]))
	}

	pagination := response.NewPagination(page, pageSize, total)
	if keyword == "" {
		payload := response.PageResponse{
			StatusCode: response.CodeOK,
			Msg:        "success",
			Data:       views,
			Pagination: pagination,
		}
		if err := cache.SetJSON(c.Request.Context(), cacheKey, payload, catalogCacheTTL); err != nil {
			requestLog(c).Warnw("catalog_cache_write_failed", "error", err)
		}
	}
	response.SuccessWithPage(c, views, pagination)
}

// GetProduct 商品详情(按 slug)
func (h *Handler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")
	product, err := h.ProductRepo.GetBySlug(slug)
	if err != nil {
		respondError(c, response.CodeInternal, "error.catalog_fetch_failed", err)
		return
	}
	if product == nil || !product.IsActive {
		respondError(c, response.CodeNotFound, "error.product_not_available", nil)
		return
	}
	response.Success(c, buildProductView(product))
}

// ListComboOffers 套餐列表(仅启用)
func (h *Handler) ListComboOffers(c *gin.Context) {
	cacheKey := cache.BuildKey("catalog", "combo_offers")
	var cached []models.ComboOffer
	if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	offers, err := h.ComboOfferRepo.ListActive()
	if err != nil {
		respondError(c, response.CodeInternal, "error.catalog_fetch_failed", err)
		return
	}
	if err := cache.SetJSON(c.Request.Context(), cacheKey, offers, catalogCacheTTL); err != nil {
		requestLog(c).Warnw("catalog_cache_write_failed", "error", err)
	}
	response.Success(c, offers)
}

func buildProductView(product *models.Product) PublicProductView {
	return PublicProductView{
		Product:        *product,
		EffectivePrice: service.EffectivePrice(product),
		InStock:        product.Stock > 0,
	}
}
