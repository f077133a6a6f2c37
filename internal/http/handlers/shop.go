package handlers

import (
	"net/http"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/service"

	"github.com/gin-gonic/gin"
)

// ListShop возвращает активные позиции магазина
func (h *Handler) ListShop(c *gin.Context) {
	items, err := h.Shop.ListActive(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type PurchaseRequest struct {
	ItemType string `json:"item_type" binding:"required"`
	ItemID   int64  `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// Purchase проводит покупку товара или аксессуара
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req PurchaseRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	result, err := h.ShopService.Purchase(c.Request.Context(), userID,
		service.ItemType(req.ItemType), req.ItemID, req.Quantity)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.QuestService.BumpProgressAsync(userID, domain.ActionTypePurchases, result.Quantity)

	c.JSON(http.StatusOK, result)
}

// MyPurchases возвращает историю покупок игрока
func (h *Handler) MyPurchases(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	purchases, err := h.Shop.GetUserPurchases(c.Request.Context(), userID, 50)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
