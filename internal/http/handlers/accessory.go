package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListAccessories возвращает весь каталог аксессуаров
func (h *Handler) ListAccessories(c *gin.Context) {
	accessories, err := h.Accessories.List(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessories": accessories})
}

// MyAccessories возвращает коллекцию игрока
func (h *Handler) MyAccessories(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	accessories, err := h.Accessories.ListOwned(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessories": accessories})
}

type EquipRequest struct {
	Equip *bool `json:"equip"` // nil = переключить
}

// EquipAccessory надевает или снимает аксессуар из коллекции
func (h *Handler) EquipAccessory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	accessoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accessory id"})
		return
	}

	var req EquipRequest
	_ = c.BindJSON(&req) // пустое тело допустимо

	result, err := h.AccessoryService.Equip(c.Request.Context(), userID, accessoryID, req.Equip)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
