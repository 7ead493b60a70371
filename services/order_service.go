package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/littlelemon/restaurant-api/models"
)

var (
	// ErrEmptyCart rejects checkout of a cart with no lines.
	ErrEmptyCart = errors.New("cannot place an order from an empty cart")
	// ErrInvalidStatus rejects status values outside the enum.
	ErrInvalidStatus = errors.New("status must be 0 (pending) or 1 (delivered)")
)

// InvalidAssignmentError reports a delivery-crew assignment of a user who is
// not in the Delivery Crew group.
type InvalidAssignmentError struct {
	Username string
}

func (e *InvalidAssignmentError) Error() string {
	return fmt.Sprintf("user %q does not belong to the %s group", e.Username, models.GroupDeliveryCrew)
}

// OrderService is the order lifecycle engine: cart-to-order conversion,
// role-scoped visibility and state transitions.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// PlaceOrder converts userID's cart into an order in one transaction. The
// cart lines are read under a row lock so a double-submitted checkout
// serializes: the second transaction finds the cart empty and fails with
// ErrEmptyCart. On any failure nothing is applied.
func (s *OrderService) PlaceOrder(userID uint) (*models.Order, error) {
	var order models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		order = models.Order{
			UserID: userID,
			Status: models.OrderStatusPending,
			Total:  decimal.Zero,
			Date:   time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range lines {
			item := models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				Price:      line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total = total.Add(item.Price)
			order.OrderItems = append(order.OrderItems, item)
		}

		if err := tx.Where("user_id = ?", userID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		order.Total = total
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("total", total).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the orders visible to the caller: managers see all,
// delivery crew their assigned orders, customers their own.
func (s *OrderService) ListOrders(userID uint, roles models.RoleSet) ([]models.Order, error) {
	q := s.DB.Preload("OrderItems").Preload("DeliveryCrew")
	switch roles.Primary() {
	case models.RoleManager:
		// unrestricted
	case models.RoleDeliveryCrew:
		q = q.Where("delivery_crew_id = ?", userID)
	default:
		q = q.Where("user_id = ?", userID)
	}

	orders := make([]models.Order, 0)
	err := q.Order("id").Find(&orders).Error
	return orders, err
}

// GetOrder fetches one order with its items.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("OrderItems").Preload("DeliveryCrew").
		First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderPatch is a partial update of an order's mutable fields. Which fields
// apply depends on the caller's role.
type OrderPatch struct {
	Status       *models.OrderStatus
	DeliveryCrew *string // username
	Total        *decimal.Decimal
}

// UpdateOrder applies patch to orderID under the role rules: managers may set
// status, delivery crew and total; delivery crew may set only status, other
// fields are ignored for them. Callers must have rejected plain customers
// already.
func (s *OrderService) UpdateOrder(orderID uint, roles models.RoleSet, patch OrderPatch) (*models.Order, error) {
	var order models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}

		if patch.Status != nil {
			if !patch.Status.Valid() {
				return ErrInvalidStatus
			}
			order.Status = *patch.Status
		}

		if roles.Manager {
			if patch.DeliveryCrew != nil {
				crew, err := s.deliveryCrewByUsername(tx, *patch.DeliveryCrew)
				if err != nil {
					return err
				}
				order.DeliveryCrewID = &crew.ID
			}
			if patch.Total != nil {
				order.Total = *patch.Total
			}
		}

		return tx.Omit(clause.Associations).Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(order.ID)
}

// DeleteOrder removes an order and its item snapshots.
func (s *OrderService) DeleteOrder(orderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// deliveryCrewByUsername resolves username to a user currently holding the
// Delivery Crew group, or fails with InvalidAssignmentError.
func (s *OrderService) deliveryCrewByUsername(tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := tx.Preload("Groups").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &InvalidAssignmentError{Username: username}
		}
		return nil, err
	}
	if !models.RolesFromGroups(user.Groups).DeliveryCrew {
		return nil, &InvalidAssignmentError{Username: username}
	}
	return &user, nil
}
