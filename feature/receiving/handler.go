package receiving

import (
	"errors"

	"materials-manager/core/logger"
	"materials-manager/feature/orders"
	"materials-manager/feature/receiving/reconcile"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the receiving workflow.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the receiving routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/receiving")
	group.Get("/orders/:orderID/items/:itemID", h.HandleReconcile)
	group.Post("/orders/:orderID/items/:itemID/request", h.HandleBuildRequest)
	group.Post("/reports", h.HandleSubmitReport)
}

// HandleReconcile returns the reconciliation view for one order line.
// @Summary Reconcile Order Line
// @Description Compute which delivered batches have not been posted to inventory yet for one purchase-order line item.
// @Tags receiving
// @Accept json
// @Produce json
// @Param orderID path string true "Purchase Order ID"
// @Param itemID path string true "Line Item ID"
// @Success 200 {object} Reconciliation "Reconciliation"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]string "Missing Order Number"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /receiving/orders/{orderID}/items/{itemID} [get]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	view, err := h.service.Reconcile(c.Context(), c.Params("orderID"), c.Params("itemID"))
	if err != nil {
		return h.renderError(c, l, err, "Reconciliation failed")
	}
	return c.JSON(view)
}

// HandleBuildRequest builds the receiving-request parameters for one line.
// @Summary Build Receiving Request
// @Description Build the parameter set for posting outstanding batches to inventory. Fails with 409 when no unloading report mentions the line item.
// @Tags receiving
// @Accept json
// @Produce json
// @Param orderID path string true "Purchase Order ID"
// @Param itemID path string true "Line Item ID"
// @Success 200 {object} reconcile.ReceivingRequest "Receiving Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]any "Not Reported"
// @Failure 422 {object} map[string]string "Missing Order Number"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /receiving/orders/{orderID}/items/{itemID}/request [post]
func (h *Handler) HandleBuildRequest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	req, err := h.service.BuildReceivingRequest(c.Context(), c.Params("orderID"), c.Params("itemID"))

	var notReported *reconcile.NotReportedError
	if errors.As(err, &notReported) {
		// Not a server fault: the warehouse has not reported the item.
		// The classification tells the operator what to fix.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":          notReported.Error(),
			"classification": notReported.Class,
			"message": notReported.Class.Message(reconcile.LineItem{
				ID:   notReported.LineItemID,
				Name: notReported.LineItemName,
			}),
		})
	}
	if err != nil {
		return h.renderError(c, l, err, "Receiving request build failed")
	}
	return c.JSON(req)
}

// HandleSubmitReport stores a new unloading report.
// @Summary Submit Unloading Report
// @Description Validate and store a new warehouse unloading report document.
// @Tags receiving
// @Accept json
// @Produce json
// @Param report body ReportSubmission true "Unloading Report"
// @Success 201 {object} map[string]string "Stored"
// @Failure 400 {object} map[string]string "Invalid Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /receiving/reports [post]
func (h *Handler) HandleSubmitReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var submission ReportSubmission
	if err := c.BodyParser(&submission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	id, err := h.service.SubmitReport(c.Context(), submission)
	if err != nil {
		if errors.As(err, new(validator.ValidationErrors)) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return h.renderError(c, l, err, "Report ingestion failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// renderError maps service errors onto HTTP statuses.
func (h *Handler) renderError(c *fiber.Ctx, l *zap.Logger, err error, logMsg string) error {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrMissingOrderNumber):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error(logMsg, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
