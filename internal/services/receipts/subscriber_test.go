package receipts

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"orderbot/internal/models"
)

func TestFormatReceipt(t *testing.T) {
	base := models.ReceiptMessage{
		OrderNumber:    "ORD_20260829_001",
		TotalAmount:    decimal.RequireFromString("10.03"),
		PaymentMethod:  "cash",
		EstimatedReady: time.Date(2026, 8, 29, 18, 45, 0, 0, time.UTC),
		Timestamp:      time.Date(2026, 8, 29, 18, 25, 0, 0, time.UTC),
	}

	pickup := base
	pickup.OrderType = "pickup"
	got := formatReceipt(&pickup)
	for _, want := range []string{"ORD_20260829_001", "$10.03", "cash", "ready for pickup", "18:45"} {
		if !strings.Contains(got, want) {
			t.Errorf("pickup receipt %q missing %q", got, want)
		}
	}

	delivery := base
	delivery.OrderType = "delivery"
	if got := formatReceipt(&delivery); !strings.Contains(got, "delivered") {
		t.Errorf("delivery receipt %q missing %q", got, "delivered")
	}
}
