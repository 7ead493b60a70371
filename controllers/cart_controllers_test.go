package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/controllers"
	"github.com/littlelemon/restaurant-api/middlewares"
	"github.com/littlelemon/restaurant-api/models"
)

func seedUser(t *testing.T, db *gorm.DB, username string, groups ...string) models.User {
	t.Helper()
	user := models.User{Username: username, Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	for _, name := range groups {
		var group models.Group
		if err := db.Where("name = ?", name).First(&group).Error; err != nil {
			t.Fatalf("group %s missing: %v", name, err)
		}
		if err := db.Model(&user).Association("Groups").Append(&group); err != nil {
			t.Fatalf("failed to add group: %v", err)
		}
	}
	db.Preload("Groups").First(&user, user.ID)
	return user
}

// asUser stands in for AuthMiddleware, injecting an already-resolved caller.
func asUser(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.CtxUserID, user.ID)
		c.Set(middlewares.CtxUsername, user.Username)
		c.Set(middlewares.CtxRoles, models.RolesFromGroups(user.Groups))
		c.Next()
	}
}

func setupCartRouter(db *gorm.DB, user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cartCtrl := controllers.NewCartController(db)
	r.Use(asUser(user))
	r.GET("/cart/menu-items", cartCtrl.GetCart)
	r.POST("/cart/menu-items", cartCtrl.AddToCart)
	r.DELETE("/cart/menu-items", cartCtrl.ClearCart)
	return r
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	r := setupCartRouter(db, alice)

	w := doJSON(t, r, "POST", "/cart/menu-items", gin.H{"item": burger.ID, "quantity": 2})
	assert.Equal(t, http.StatusCreated, w.Code)

	line := decodeData(t, w).(map[string]interface{})
	assert.Equal(t, "10", line["unit_price"])
	assert.Equal(t, "20", line["price"])
}

func TestAddToCartDuplicateLinesAllowed(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	r := setupCartRouter(db, alice)

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, "POST", "/cart/menu-items", gin.H{"item": burger.ID, "quantity": 1})
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, "GET", "/cart/menu-items", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2, "identical lines are not merged")
}

func TestAddToCartValidation(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	r := setupCartRouter(db, alice)

	w := doJSON(t, r, "POST", "/cart/menu-items", gin.H{"item": burger.ID, "quantity": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "POST", "/cart/menu-items", gin.H{"item": 999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)

	aliceRouter := setupCartRouter(db, alice)
	w := doJSON(t, aliceRouter, "POST", "/cart/menu-items", gin.H{"item": burger.ID, "quantity": 1})
	assert.Equal(t, http.StatusCreated, w.Code)

	bobRouter := setupCartRouter(db, bob)
	w = doJSON(t, bobRouter, "GET", "/cart/menu-items", nil)
	assert.Len(t, decodeList(t, w), 0)
}

func TestClearCartIdempotent(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	r := setupCartRouter(db, alice)

	doJSON(t, r, "POST", "/cart/menu-items", gin.H{"item": burger.ID, "quantity": 1})

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, "DELETE", "/cart/menu-items", nil)
		assert.Equal(t, http.StatusOK, w.Code, fmt.Sprintf("clear #%d must succeed", i+1))
	}

	w := doJSON(t, r, "GET", "/cart/menu-items", nil)
	assert.Len(t, decodeList(t, w), 0)
}
