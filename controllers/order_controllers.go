package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/middlewares"
	"github.com/littlelemon/restaurant-api/models"
	"github.com/littlelemon/restaurant-api/services"
	"github.com/littlelemon/restaurant-api/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, Orders: services.NewOrderService(db)}
}

// GetAllOrders lists the orders visible to the caller's role.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.ListOrders(middlewares.CurrentUserID(c), middlewares.CurrentRoles(c))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder converts the caller's cart into an order.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	order, err := oc.Orders.PlaceOrder(userID)
	if err != nil {
		oc.respondOrderError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d placed by user %d, total %s", order.ID, userID, order.Total)
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetOrderByID returns one order, to its owner only. Managers and delivery
// crew get no bypass on this path; they use the list endpoint.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.Orders.GetOrder(uint(id))
	if err != nil {
		oc.respondOrderError(c, err)
		return
	}
	if order.UserID != middlewares.CurrentUserID(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

type orderUpdateRequest struct {
	Status       *models.OrderStatus `json:"status"`
	DeliveryCrew *string             `json:"delivery_crew"`
	Total        *decimal.Decimal    `json:"total"`
}

// UpdateOrder is the manager-only replacement path. The payload is still
// treated as a partial patch over {status, delivery_crew, total}.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	roles := middlewares.CurrentRoles(c)
	if !roles.Manager {
		utils.RespondError(c, http.StatusForbidden, middlewares.ErrManagerOnly)
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	var body orderUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateOrder(uint(id), roles, services.OrderPatch{
		Status:       body.Status,
		DeliveryCrew: body.DeliveryCrew,
		Total:        body.Total,
	})
	if err != nil {
		oc.respondOrderError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// PatchOrder applies the per-role transition rules: managers may set status
// and delivery crew, delivery crew only status, customers are rejected.
func (oc *OrderController) PatchOrder(c *gin.Context) {
	roles := middlewares.CurrentRoles(c)
	if !roles.Manager && !roles.DeliveryCrew {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	var body orderUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	patch := services.OrderPatch{Status: body.Status}
	if roles.Manager {
		patch.DeliveryCrew = body.DeliveryCrew
	}

	order, err := oc.Orders.UpdateOrder(uint(id), roles, patch)
	if err != nil {
		oc.respondOrderError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// DeleteOrder removes an order and its items. Manager only.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	if !middlewares.CurrentRoles(c).Manager {
		utils.RespondError(c, http.StatusForbidden, middlewares.ErrManagerOnly)
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	if err := oc.Orders.DeleteOrder(uint(id)); err != nil {
		oc.respondOrderError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

func (oc *OrderController) respondOrderError(c *gin.Context, err error) {
	var invalid *services.InvalidAssignmentError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
	case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrInvalidStatus):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &invalid):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
