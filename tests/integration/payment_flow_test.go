package integration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func hmacHex(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentFlow(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "payer@example.com", "password123")

	t.Run("order then checkout verify", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/payments/create-order",
			`{"amount":"499.00","currency":"INR"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create order failed: %d %s", rec.Code, rec.Body.String())
		}
		order := data(t, rec)
		orderID := order["razorpay_order_id"].(string)
		if order["status"] != "created" {
			t.Fatalf("expected created status, got %v", order["status"])
		}

		signature := hmacHex("it-key-secret", orderID+"|pay_flow1")
		body := fmt.Sprintf(
			`{"razorpay_order_id":%q,"razorpay_payment_id":"pay_flow1","razorpay_signature":%q}`,
			orderID, signature)
		rec = app.request("POST", "/api/v1/payments/verify", body, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("verify failed: %d %s", rec.Code, rec.Body.String())
		}
		if data(t, rec)["status"] != "captured" {
			t.Errorf("expected captured, got %s", rec.Body.String())
		}
	})

	t.Run("tampered signature fails the payment", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/payments/create-order",
			`{"amount":"100.00"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create order failed: %d %s", rec.Code, rec.Body.String())
		}
		orderID := data(t, rec)["razorpay_order_id"].(string)

		body := fmt.Sprintf(
			`{"razorpay_order_id":%q,"razorpay_payment_id":"pay_flow2","razorpay_signature":"deadbeef"}`,
			orderID)
		rec = app.request("POST", "/api/v1/payments/verify", body, access)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("webhook captures without auth", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/payments/create-order",
			`{"amount":"250.00"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create order failed: %d %s", rec.Code, rec.Body.String())
		}
		orderID := data(t, rec)["razorpay_order_id"].(string)

		body := fmt.Sprintf(
			`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_wh_flow","order_id":%q,"status":"captured"}}}}`,
			orderID)
		req := httptest.NewRequest("POST", "/api/v1/payments/webhook", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Razorpay-Signature", hmacHex("it-webhook-secret", body))
		wrec := httptest.NewRecorder()
		app.Router.ServeHTTP(wrec, req)

		if wrec.Code != http.StatusOK {
			t.Fatalf("webhook failed: %d %s", wrec.Code, wrec.Body.String())
		}

		// The user's listing shows the captured payment.
		rec = app.request("GET", "/api/v1/payments", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
		}
		page := data(t, rec)
		captured := false
		for _, item := range page["data"].([]interface{}) {
			p := item.(map[string]interface{})
			if p["razorpay_order_id"] == orderID && p["status"] == "captured" {
				captured = true
			}
		}
		if !captured {
			t.Error("expected webhook capture visible in listing")
		}
	})
}
