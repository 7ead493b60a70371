package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/middlewares"
	"github.com/littlelemon/restaurant-api/models"
	"github.com/littlelemon/restaurant-api/utils"
)

type CartController struct {
	DB *gorm.DB
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db}
}

// GetCart lists the caller's own cart lines.
func (cc *CartController) GetCart(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	lines := make([]models.CartItem, 0)
	if err := cc.DB.Preload("MenuItem").Preload("MenuItem.Category").
		Where("user_id = ?", userID).
		Order("id").
		Find(&lines).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart items", lines)
}

// AddToCart appends a line to the caller's cart, snapshotting the current
// menu item price. Identical lines are not merged.
func (cc *CartController) AddToCart(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	var body struct {
		Item     uint `json:"item" binding:"required"`
		Quantity int  `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Quantity < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("quantity must be a positive integer"))
		return
	}

	var item models.MenuItem
	if err := cc.DB.First(&item, body.Item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	line := models.CartItem{
		UserID:     userID,
		MenuItemID: item.ID,
		Quantity:   body.Quantity,
		UnitPrice:  item.Price,
		Price:      item.Price.Mul(decimal.NewFromInt(int64(body.Quantity))),
	}
	if err := cc.DB.Create(&line).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	line.MenuItem = item

	utils.RespondJSON(c, http.StatusCreated, "Added to cart", line)
}

// ClearCart deletes every line of the caller's cart. Clearing an empty cart
// succeeds.
func (cc *CartController) ClearCart(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	if err := cc.DB.Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}
