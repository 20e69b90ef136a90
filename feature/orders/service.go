package orders

import (
	"context"
	"errors"
	"fmt"

	"materials-manager/feature/orders/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an order or line item does not exist.
var ErrNotFound = errors.New("not found")

// Service provides read access to purchase orders and their line items.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new orders service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// ListOrders returns all purchase orders, newest first, without line items.
func (s *Service) ListOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one purchase order with its line items.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := s.db.WithContext(ctx).Preload("LineItems").First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	return &order, nil
}

// GetLineItem returns one line item together with its order.
func (s *Service) GetLineItem(ctx context.Context, orderID, itemID string) (*models.PurchaseOrder, *models.PurchaseOrderLineItem, error) {
	var order models.PurchaseOrder
	err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	var item models.PurchaseOrderLineItem
	err = s.db.WithContext(ctx).First(&item, "id = ? AND order_id = ?", itemID, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("line item %s: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load line item %s: %w", itemID, err)
	}

	return &order, &item, nil
}

// CreateOrder persists a new purchase order with its line items.
func (s *Service) CreateOrder(ctx context.Context, order *models.PurchaseOrder) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	s.logger.Info("Purchase order created",
		zap.String("order_id", order.ID),
		zap.String("number", order.Number),
		zap.Int("line_items", len(order.LineItems)))
	return nil
}
