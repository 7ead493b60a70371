package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/models"
	"github.com/littlelemon/restaurant-api/utils"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// GetAllCategories
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	var categories []models.Category
	if err := cc.DB.Order("id").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All categories", categories)
}

// CreateCategory — Manager only (gated by the router).
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Slug  string `json:"slug" binding:"required"`
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.Category{Slug: body.Slug, Title: body.Title}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("could not create category (duplicate slug?)"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// GetCategoryByID
func (cc *CategoryController) GetCategoryByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("cat_id"))

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

// DeleteCategory refuses to delete a category still referenced by menu items.
// Manager only (gated by the router).
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("cat_id"))

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	var inUse int64
	if err := cc.DB.Model(&models.MenuItem{}).
		Where("category_id = ?", category.ID).
		Count(&inUse).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if inUse > 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category is referenced by menu items"))
		return
	}

	if err := cc.DB.Delete(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
