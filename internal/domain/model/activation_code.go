package model

import (
	"fmt"
	"strings"
	"time"

	"activation-admin/internal/domain"

	"github.com/google/uuid"
)

// ManualEntryName is stored as customer name when an operator creates a code without one.
const ManualEntryName = "Manual Entry"

// AdminOrderPrefix marks order ids synthesized for operator-created codes.
const AdminOrderPrefix = "ADMIN-"

// ActivationCode binds a customer phone number to an order. A device redeems it once;
// an operator reset makes it redeemable again.
type ActivationCode struct {
	ID            string     `json:"id"`
	Phone         string     `json:"phone"`
	OrderID       string     `json:"order_id"`
	CustomerName  *string    `json:"customer_name"`
	CustomerEmail *string    `json:"customer_email"`
	DeviceID      *string    `json:"device_id"`
	Used          bool       `json:"used"`
	UsedAt        *time.Time `json:"used_at"` // Pointer to allow for NULL
	CreatedAt     time.Time  `json:"created_at"`
}

// NewActivationCode validates and constructs an unused code for the given order.
func NewActivationCode(orderID, phone string, name, email *string, now time.Time) (*ActivationCode, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.Invalid("order id is required")
	}
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	return &ActivationCode{
		ID:            uuid.NewString(),
		Phone:         normalized,
		OrderID:       orderID,
		CustomerName:  trimmedOrNil(name),
		CustomerEmail: trimmedOrNil(email),
		CreatedAt:     now,
	}, nil
}

// AdminOrderID builds the order reference for an operator-created code.
func AdminOrderID(now time.Time) string {
	return fmt.Sprintf("%s%d", AdminOrderPrefix, now.UnixMilli())
}

// NormalizePhone keeps the digits of raw and returns them behind a single leading '+'.
// Input carrying neither a digit nor a '+' is rejected.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw) + 1)
	b.WriteByte('+')
	seen := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			seen = true
		case r == '+':
			seen = true
		}
	}
	if !seen {
		return "", domain.Invalid("phone is required")
	}
	return b.String(), nil
}

// Redeem binds the code to a device. The three redemption fields always move together.
func (c *ActivationCode) Redeem(deviceID string, at time.Time) error {
	if c.Used {
		return domain.Invalid("activation code already used")
	}
	if strings.TrimSpace(deviceID) == "" {
		return domain.Invalid("device id is required")
	}
	c.DeviceID = &deviceID
	c.UsedAt = &at
	c.Used = true
	return nil
}

// Reset clears a redemption. Resetting an unused code leaves it unchanged.
func (c *ActivationCode) Reset() {
	c.DeviceID = nil
	c.UsedAt = nil
	c.Used = false
}

// Consistent reports whether used, device_id and used_at agree.
func (c *ActivationCode) Consistent() bool {
	if c.Used {
		return c.DeviceID != nil && c.UsedAt != nil
	}
	return c.DeviceID == nil && c.UsedAt == nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// Stats is a point-in-time snapshot of the activation registry.
type Stats struct {
	TotalCodes       int `json:"total_codes"`
	ActivatedCodes   int `json:"activated_codes"`
	TodayActivations int `json:"today_activations"`
	WeekActivations  int `json:"week_activations"`
}

// DailyCount is one bucket of the activation chart.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Count int    `json:"count"`
}
