package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/models"
	"github.com/littlelemon/restaurant-api/utils"
)

const (
	defaultPerPage = 2
	defaultPage    = 1
)

// orderingFields is the allow-list of sortable menu item columns. Anything
// else in the ordering parameter is rejected rather than passed to the sort.
var orderingFields = map[string]bool{
	"title":     true,
	"price":     true,
	"inventory": true,
	"featured":  true,
}

type MenuItemController struct {
	DB *gorm.DB
}

func NewMenuItemController(db *gorm.DB) *MenuItemController {
	return &MenuItemController{DB: db}
}

// menuItemResponse adds the derived price_after_tax to the stored fields.
type menuItemResponse struct {
	models.MenuItem
	PriceAfterTax decimal.Decimal `json:"price_after_tax"`
}

func toMenuItemResponse(m models.MenuItem) menuItemResponse {
	return menuItemResponse{MenuItem: m, PriceAfterTax: m.PriceAfterTax()}
}

func toMenuItemResponses(items []models.MenuItem) []menuItemResponse {
	out := make([]menuItemResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMenuItemResponse(m))
	}
	return out
}

// GetAllMenuItems lists menu items with conjunctive filtering, allow-listed
// ordering and pagination.
// Query: category, to_price, search, ordering, perpage (default 2), page (default 1).
func (mc *MenuItemController) GetAllMenuItems(c *gin.Context) {
	q := mc.DB.Model(&models.MenuItem{}).Preload("Category")

	if category := c.Query("category"); category != "" {
		q = q.Joins("JOIN categories ON categories.id = menu_items.category_id").
			Where("categories.title = ?", category)
	}

	if toPrice := c.Query("to_price"); toPrice != "" {
		price, err := decimal.NewFromString(toPrice)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid to_price"))
			return
		}
		q = q.Where("menu_items.price <= ?", price)
	}

	if ordering := c.Query("ordering"); ordering != "" {
		for _, field := range strings.Split(ordering, ",") {
			dir := "ASC"
			if strings.HasPrefix(field, "-") {
				dir = "DESC"
				field = strings.TrimPrefix(field, "-")
			}
			if !orderingFields[field] {
				utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid ordering field %q", field))
				return
			}
			q = q.Order("menu_items." + field + " " + dir)
		}
	}

	perPage, err := positiveIntQuery(c, "perpage", defaultPerPage)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	page, err := positiveIntQuery(c, "page", defaultPage)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var items []models.MenuItem
	if err := q.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Case-sensitive substring match, applied before pagination. Done here
	// rather than with LIKE, whose case sensitivity depends on collation.
	if search := c.Query("search"); search != "" {
		filtered := items[:0]
		for _, m := range items {
			if strings.Contains(m.Title, search) {
				filtered = append(filtered, m)
			}
		}
		items = filtered
	}

	// A page past the end yields an empty list, not an error.
	start := (page - 1) * perPage
	if start > len(items) {
		start = len(items)
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	items = items[start:end]

	utils.RespondJSON(c, http.StatusOK, "List of menu items", toMenuItemResponses(items))
}

func positiveIntQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

// CreateMenuItem adds a menu item. Manager only (gated by the router).
func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	var body struct {
		Title      string          `json:"title" binding:"required"`
		Price      decimal.Decimal `json:"price" binding:"required"`
		Featured   bool            `json:"featured"`
		CategoryID uint            `json:"category_id" binding:"required"`
		Inventory  int             `json:"inventory"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !body.Price.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must be positive"))
		return
	}
	if body.Inventory < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("inventory cannot be negative"))
		return
	}

	var category models.Category
	if err := mc.DB.First(&category, body.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown category_id"))
		return
	}

	item := models.MenuItem{
		Title:      body.Title,
		Price:      body.Price,
		Featured:   body.Featured,
		CategoryID: body.CategoryID,
		Inventory:  body.Inventory,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	item.Category = category

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", toMenuItemResponse(item))
}

// GetMenuItemByID returns one menu item.
func (mc *MenuItemController) GetMenuItemByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.Preload("Category").First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item detail", toMenuItemResponse(item))
}

// UpdateMenuItem applies a partial patch. PUT and PATCH behave identically.
// Manager only (gated by the router).
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var body struct {
		Title      *string          `json:"title"`
		Price      *decimal.Decimal `json:"price"`
		Featured   *bool            `json:"featured"`
		CategoryID *uint            `json:"category_id"`
		Inventory  *int             `json:"inventory"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Title != nil {
		item.Title = *body.Title
	}
	if body.Price != nil {
		if !body.Price.IsPositive() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be positive"))
			return
		}
		item.Price = *body.Price
	}
	if body.Featured != nil {
		item.Featured = *body.Featured
	}
	if body.CategoryID != nil {
		var category models.Category
		if err := mc.DB.First(&category, *body.CategoryID).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown category_id"))
			return
		}
		item.CategoryID = *body.CategoryID
	}
	if body.Inventory != nil {
		if *body.Inventory < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("inventory cannot be negative"))
			return
		}
		item.Inventory = *body.Inventory
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	mc.DB.Preload("Category").First(&item, item.ID)

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", toMenuItemResponse(item))
}

// DeleteMenuItem removes a menu item. Deletion is never blocked by carts: any
// cart line still holding the item goes with it. Order item snapshots stay.
// Manager only (gated by the router).
func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", item.ID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": id})
}
