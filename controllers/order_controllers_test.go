package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/controllers"
	"github.com/littlelemon/restaurant-api/models"
)

func setupOrderRouter(db *gorm.DB, user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	orderCtrl := controllers.NewOrderController(db)
	r.Use(asUser(user))
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
	r.PATCH("/orders/:order_id", orderCtrl.PatchOrder)
	r.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
	return r
}

func fillCart(t *testing.T, db *gorm.DB, userID uint, item models.MenuItem, qty int) {
	t.Helper()
	line := models.CartItem{
		UserID:     userID,
		MenuItemID: item.ID,
		Quantity:   qty,
		UnitPrice:  item.Price,
		Price:      item.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("failed to fill cart: %v", err)
	}
}

func TestCheckoutCreatesOrderAndEmptiesCart(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	fries := seedMenuItem(t, db, "Fries", "3.00", lunch.ID)
	fillCart(t, db, alice.ID, burger, 2)
	fillCart(t, db, alice.ID, fries, 1)
	r := setupOrderRouter(db, alice)

	w := doJSON(t, r, "POST", "/orders", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	order := decodeData(t, w).(map[string]interface{})
	assert.Equal(t, "23", order["total"])
	assert.Len(t, order["order_items"].([]interface{}), 2)

	var remaining int64
	db.Model(&models.CartItem{}).Where("user_id = ?", alice.ID).Count(&remaining)
	assert.EqualValues(t, 0, remaining)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	r := setupOrderRouter(db, alice)

	w := doJSON(t, r, "POST", "/orders", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSingleOrderReadIsOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	manager := seedUser(t, db, "mgr", models.GroupManager)
	crew := seedUser(t, db, "crew", models.GroupDeliveryCrew)
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	fillCart(t, db, alice.ID, burger, 1)

	w := doJSON(t, setupOrderRouter(db, alice), "POST", "/orders", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	orderID := int(decodeData(t, w).(map[string]interface{})["id"].(float64))
	url := fmt.Sprintf("/orders/%d", orderID)

	w = doJSON(t, setupOrderRouter(db, alice), "GET", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// No bypass on the single-order path, even for manager or crew.
	w = doJSON(t, setupOrderRouter(db, manager), "GET", url, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, setupOrderRouter(db, crew), "GET", url, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderListRoleVisibility(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	manager := seedUser(t, db, "mgr", models.GroupManager)
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)

	fillCart(t, db, alice.ID, burger, 1)
	doJSON(t, setupOrderRouter(db, alice), "POST", "/orders", nil)
	fillCart(t, db, bob.ID, burger, 1)
	doJSON(t, setupOrderRouter(db, bob), "POST", "/orders", nil)

	w := doJSON(t, setupOrderRouter(db, manager), "GET", "/orders", nil)
	assert.Len(t, decodeList(t, w), 2)

	w = doJSON(t, setupOrderRouter(db, alice), "GET", "/orders", nil)
	assert.Len(t, decodeList(t, w), 1)
}

func TestManagerPatchDeliversOrder(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	manager := seedUser(t, db, "mgr", models.GroupManager)
	crew := seedUser(t, db, "crew", models.GroupDeliveryCrew)
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	fillCart(t, db, alice.ID, burger, 1)

	w := doJSON(t, setupOrderRouter(db, alice), "POST", "/orders", nil)
	orderID := int(decodeData(t, w).(map[string]interface{})["id"].(float64))
	url := fmt.Sprintf("/orders/%d", orderID)

	w = doJSON(t, setupOrderRouter(db, manager), "PATCH", url, gin.H{
		"status":        1,
		"delivery_crew": crew.Username,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.NotNil(t, order.DeliveryCrewID)
	assert.Equal(t, crew.ID, *order.DeliveryCrewID)
}

func TestCustomerPatchForbidden(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	fillCart(t, db, alice.ID, burger, 1)

	r := setupOrderRouter(db, alice)
	w := doJSON(t, r, "POST", "/orders", nil)
	orderID := int(decodeData(t, w).(map[string]interface{})["id"].(float64))

	w = doJSON(t, r, "PATCH", fmt.Sprintf("/orders/%d", orderID), gin.H{"status": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestInvalidCrewAssignmentNamesUsername(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	manager := seedUser(t, db, "mgr", models.GroupManager)
	seedUser(t, db, "walker") // not delivery crew
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	fillCart(t, db, alice.ID, burger, 1)

	w := doJSON(t, setupOrderRouter(db, alice), "POST", "/orders", nil)
	orderID := int(decodeData(t, w).(map[string]interface{})["id"].(float64))

	w = doJSON(t, setupOrderRouter(db, manager), "PATCH", fmt.Sprintf("/orders/%d", orderID), gin.H{
		"delivery_crew": "walker",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "walker")

	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Nil(t, order.DeliveryCrewID)
}

func TestCrewPatchLimitedToStatus(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	crew := seedUser(t, db, "crew", models.GroupDeliveryCrew)
	other := seedUser(t, db, "crew2", models.GroupDeliveryCrew)
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	fillCart(t, db, alice.ID, burger, 1)

	w := doJSON(t, setupOrderRouter(db, alice), "POST", "/orders", nil)
	orderID := int(decodeData(t, w).(map[string]interface{})["id"].(float64))

	w = doJSON(t, setupOrderRouter(db, crew), "PATCH", fmt.Sprintf("/orders/%d", orderID), gin.H{
		"status":        1,
		"delivery_crew": other.Username,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.Nil(t, order.DeliveryCrewID, "crew reassignment attempts are ignored")
}

func TestManagerPutUpdatesTotal(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	manager := seedUser(t, db, "mgr", models.GroupManager)
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	fillCart(t, db, alice.ID, burger, 1)

	w := doJSON(t, setupOrderRouter(db, alice), "POST", "/orders", nil)
	orderID := int(decodeData(t, w).(map[string]interface{})["id"].(float64))
	url := fmt.Sprintf("/orders/%d", orderID)

	w = doJSON(t, setupOrderRouter(db, manager), "PUT", url, gin.H{"total": "5.00"})
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("5.00")))

	// PUT stays manager-only.
	w = doJSON(t, setupOrderRouter(db, alice), "PUT", url, gin.H{"status": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteOrderManagerOnly(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	manager := seedUser(t, db, "mgr", models.GroupManager)
	lunch := seedCategory(t, db, "lunch", "Lunch")
	burger := seedMenuItem(t, db, "Burger", "10.00", lunch.ID)
	fillCart(t, db, alice.ID, burger, 1)

	w := doJSON(t, setupOrderRouter(db, alice), "POST", "/orders", nil)
	orderID := int(decodeData(t, w).(map[string]interface{})["id"].(float64))
	url := fmt.Sprintf("/orders/%d", orderID)

	w = doJSON(t, setupOrderRouter(db, alice), "DELETE", url, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "must be a manager")

	w = doJSON(t, setupOrderRouter(db, manager), "DELETE", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, setupOrderRouter(db, manager), "DELETE", url, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
