package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nextbloom/nextbloom-api/app/models"
)

func TestBuildOTPEmailBody(t *testing.T) {
	body := BuildOTPEmailBody("482913", 10)

	if !strings.Contains(body, "482913") {
		t.Error("body does not contain the code")
	}
	if !strings.Contains(body, "10 minutes") {
		t.Error("body does not mention the expiry")
	}
}

func TestBuildOrderConfirmationBody(t *testing.T) {
	order := &models.Order{
		OrderNumber:  "ORD-20250101-4F8A2C",
		Subtotal:     decimal.RequireFromString("13.97"),
		ShippingCost: decimal.RequireFromString("50"),
		Total:        decimal.RequireFromString("63.97"),
		OrderItems: []models.OrderItem{
			{
				Product: &models.Product{Name: "Snake Plant"},
				Qty:     2,
				Total:   decimal.RequireFromString("7.98"),
			},
		},
	}

	body := BuildOrderConfirmationBody(order)

	for _, want := range []string{"ORD-20250101-4F8A2C", "Snake Plant", FormatINR(order.Total)} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestFormatINR(t *testing.T) {
	if got := FormatINR(decimal.RequireFromString("63.97")); !strings.Contains(got, "63.97") {
		t.Errorf("FormatINR = %q, want it to contain 63.97", got)
	}
}
