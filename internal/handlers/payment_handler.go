package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/pagination"
	"paisabook/internal/services"
)

// PaymentHandler handles the Razorpay order/verify/webhook flow.
type PaymentHandler struct {
	paymentService services.PaymentServicer
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService services.PaymentServicer) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateOrderRequest represents the request payload for creating a
// payment order.
type CreateOrderRequest struct {
	Amount    decimal.Decimal   `json:"amount" binding:"required"`
	Currency  string            `json:"currency" binding:"omitempty,iso4217"`
	ExpenseID *string           `json:"expense_id" binding:"omitempty,uuid"`
	Notes     map[string]string `json:"notes" binding:"omitempty,max=15"`
}

// VerifyPaymentRequest carries the checkout callback fields.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// CreateOrder creates a payment order
// @Summary     Create a payment order
// @Description Create a gateway order for the authenticated user and record it
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateOrderRequest true "Order details"
// @Success     201 {object} models.Payment "Order created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Gateway error"
// @Router      /payments/create-order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.paymentService.CreateOrder(userID, req.Amount, req.Currency, req.ExpenseID, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, payment)
}

// VerifyPayment verifies a checkout signature
// @Summary     Verify a payment
// @Description Verify the checkout signature and capture the payment
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body VerifyPaymentRequest true "Checkout callback fields"
// @Success     200 {object} models.Payment "Payment captured"
// @Failure     400 {object} ErrorResponse "Invalid signature"
// @Failure     404 {object} ErrorResponse "Order not found"
// @Router      /payments/verify [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.paymentService.VerifyPayment(userID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, payment)
}

// Webhook receives gateway events
// @Summary     Payment webhook
// @Description Verify the webhook signature over the raw body and apply the event
// @Tags        payments
// @Accept      json
// @Produce     json
// @Param       X-Razorpay-Signature header string true "Webhook signature"
// @Success     200 {object} map[string]interface{} "Event accepted"
// @Failure     400 {object} ErrorResponse "Invalid signature or payload"
// @Router      /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unreadable body"))
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := h.paymentService.HandleWebhook(body, signature); err != nil {
		respondWithError(c, err)
		return
	}
	respondMessage(c, "ok")
}

// ListPayments returns the user's payments
// @Summary     List payments
// @Description Return a page of the authenticated user's payments, newest first
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.Payment] "Payments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payments, err := h.paymentService.GetUserPayments(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, payments)
}
