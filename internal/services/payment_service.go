package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/logger"
	"paisabook/internal/mail"
	"paisabook/internal/models"
	"paisabook/internal/pagination"
	"paisabook/internal/receipt"
	"paisabook/internal/validator"
)

// OrderClient creates orders with the payment gateway. The amount is in
// the currency's minor unit (paise for INR).
type OrderClient interface {
	CreateOrder(amountMinor int64, currency, receiptRef string, notes map[string]string) (string, error)
}

// razorpayOrderClient is the production OrderClient backed by the
// Razorpay Orders API.
type razorpayOrderClient struct {
	client *razorpay.Client
}

// NewRazorpayOrderClient creates an OrderClient for the given key pair.
func NewRazorpayOrderClient(keyID, keySecret string) OrderClient {
	return &razorpayOrderClient{client: razorpay.NewClient(keyID, keySecret)}
}

func (c *razorpayOrderClient) CreateOrder(amountMinor int64, currency, receiptRef string, notes map[string]string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receiptRef,
	}
	if len(notes) > 0 {
		noteData := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			noteData[k] = v
		}
		data["notes"] = noteData
	}

	order, err := c.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}
	orderID, ok := order["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("razorpay order response missing id")
	}
	return orderID, nil
}

// paymentService drives the order-create / verify / webhook flow and
// sends the receipt email after a successful capture.
type paymentService struct {
	db            *gorm.DB
	orders        OrderClient
	mailer        mail.Mailer
	renderer      receipt.Renderer
	keySecret     string
	webhookSecret string
}

// NewPaymentService creates a new PaymentServicer. mailer and renderer
// may be nil, in which case no receipt email is sent.
func NewPaymentService(db *gorm.DB, orders OrderClient, mailer mail.Mailer, renderer receipt.Renderer, keySecret, webhookSecret string) PaymentServicer {
	return &paymentService{
		db:            db,
		orders:        orders,
		mailer:        mailer,
		renderer:      renderer,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// CreateOrder creates a gateway order and records it with status created.
func (s *paymentService) CreateOrder(userID string, amount decimal.Decimal, currency string, expenseID *string, notes map[string]string) (*models.Payment, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if currency == "" {
		currency = "INR"
	}
	if !validator.ValidCurrency(currency) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported currency "+currency)
	}

	if expenseID != nil {
		var count int64
		if err := s.db.Model(&models.Expense{}).
			Where("id = ? AND user_id = ?", *expenseID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrExpenseNotFound
		}
	}

	// Razorpay takes amounts in the minor unit.
	amountMinor := amount.Mul(decimal.NewFromInt(100)).IntPart()

	receiptRef := fmt.Sprintf("rcpt_%d", time.Now().UnixNano())
	orderID, err := s.orders.CreateOrder(amountMinor, currency, receiptRef, notes)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	payment := &models.Payment{
		UserID:          userID,
		ExpenseID:       expenseID,
		Amount:          amount,
		Currency:        currency,
		Status:          models.PaymentStatusCreated,
		RazorpayOrderID: orderID,
		Notes:           notes,
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payment, nil
}

// signOrderPayment computes the checkout signature over "orderID|paymentID".
func (s *paymentService) signOrderPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPayment checks the checkout signature for the user's order. A
// valid signature captures the payment; an invalid one marks it failed
// permanently.
func (s *paymentService) VerifyPayment(userID, orderID, paymentID, signature string) (*models.Payment, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "order_id, payment_id and signature are required")
	}

	var payment models.Payment
	err := s.db.Where("razorpay_order_id = ? AND user_id = ?", orderID, userID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if payment.Status == models.PaymentStatusCaptured {
		return &payment, nil
	}

	expected := s.signOrderPayment(orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		payment.Status = models.PaymentStatusFailed
		if saveErr := s.db.Save(&payment).Error; saveErr != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, saveErr)
		}
		return nil, apperrors.ErrInvalidSignature
	}

	now := time.Now()
	payment.Status = models.PaymentStatusCaptured
	payment.RazorpayPaymentID = paymentID
	payment.Signature = signature
	payment.VerifiedAt = &now
	if err := s.db.Save(&payment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.sendReceiptAsync(&payment)
	return &payment, nil
}

// sendReceiptAsync emails the PDF receipt in the background. Delivery
// failures are logged and never affect the payment outcome.
func (s *paymentService) sendReceiptAsync(payment *models.Payment) {
	if s.mailer == nil || s.renderer == nil {
		return
	}

	p := *payment
	go func() {
		log := logger.With("payments")

		var user models.User
		if err := s.db.First(&user, "id = ?", p.UserID).Error; err != nil {
			log.Warnw("receipt email skipped, user lookup failed", "payment_id", p.ID, "error", err)
			return
		}

		pdfBytes, err := s.renderer.Render(&p, user.Email)
		if err != nil {
			log.Warnw("receipt PDF render failed", "payment_id", p.ID, "error", err)
			return
		}

		msg := mail.Message{
			To:      user.Email,
			Subject: "Your payment receipt for " + p.RazorpayOrderID,
			HTMLBody: "<p>Hi " + user.FullName + ",</p>" +
				"<p>Your payment of " + p.Currency + " " + p.Amount.StringFixed(2) +
				" has been received. The receipt is attached.</p>" +
				"<p>PaisaBook</p>",
			Attachment:     pdfBytes,
			AttachmentName: "receipt-" + p.RazorpayOrderID + ".pdf",
		}
		if err := s.mailer.Send(msg); err != nil {
			log.Warnw("receipt email delivery failed", "payment_id", p.ID, "error", err)
		}
	}()
}

// webhookEvent is the subset of the Razorpay webhook payload we consume.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook verifies the webhook signature over the raw body and
// applies payment.captured events idempotently.
func (s *paymentService) HandleWebhook(body []byte, signature string) error {
	if signature == "" {
		return apperrors.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "malformed webhook payload")
	}

	if event.Event != "payment.captured" {
		return nil
	}

	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "webhook payload missing order_id")
	}

	var payment models.Payment
	err := s.db.Where("razorpay_order_id = ?", entity.OrderID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPaymentNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// The checkout callback may have already captured this payment.
	if payment.Status == models.PaymentStatusCaptured {
		return nil
	}

	now := time.Now()
	payment.Status = models.PaymentStatusCaptured
	if entity.ID != "" {
		payment.RazorpayPaymentID = entity.ID
	}
	payment.VerifiedAt = &now
	if err := s.db.Save(&payment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.sendReceiptAsync(&payment)
	return nil
}

// GetUserPayments returns a page of the user's payments, newest first.
func (s *paymentService) GetUserPayments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error) {
	page.Defaults()

	base := s.db.Model(&models.Payment{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var payments []models.Payment
	if err := base.Scopes(pagination.Ordered(page, "created_at DESC")).Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(payments, page.Page, page.PageSize, totalItems)
	return &result, nil
}
