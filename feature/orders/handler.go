package orders

import (
	"errors"

	"materials-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for purchase orders.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the orders routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/orders")
	group.Get("/", h.HandleListOrders)
	group.Get("/:orderID", h.HandleGetOrder)
}

// HandleListOrders returns all purchase orders.
// @Summary List Purchase Orders
// @Description List all purchase orders, newest first.
// @Tags orders
// @Accept json
// @Produce json
// @Success 200 {array} models.PurchaseOrder "Purchase Orders"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /orders [get]
func (h *Handler) HandleListOrders(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	orders, err := h.service.ListOrders(c.Context())
	if err != nil {
		l.Error("Order listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(orders)
}

// HandleGetOrder returns one purchase order with its line items.
// @Summary Get Purchase Order
// @Description Get a purchase order with all of its line items.
// @Tags orders
// @Accept json
// @Produce json
// @Param orderID path string true "Purchase Order ID"
// @Success 200 {object} models.PurchaseOrder "Purchase Order"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /orders/{orderID} [get]
func (h *Handler) HandleGetOrder(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	order, err := h.service.GetOrder(c.Context(), c.Params("orderID"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Order lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(order)
}
