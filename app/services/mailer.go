package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/leekchan/accounting"
	"github.com/nextbloom/nextbloom-api/app/models"
	"github.com/shopspring/decimal"
)

type MailerConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config MailerConfig
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{config: cfg}
}

var inr = accounting.Accounting{Symbol: "₹", Precision: 2}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {

	headers := map[string]string{
		"From":         m.config.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	var msg string
	for k, v := range headers {
		msg += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	msg += "\r\n" + htmlBody

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func BuildOTPEmailBody(otpCode string, expiryMinutes int) string {
	return fmt.Sprintf(`
        <html>
        <body style="font-family: Arial, sans-serif; color: #333;">
            <div style="max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
                <h2>Password Reset OTP - NextBloom</h2>
                <p>We received a request to reset the password for your account.</p>
                <p>Your OTP for password reset is:</p>
                <p style="font-size: 2em; font-weight: bold; color: #007bff;">%s</p>
                <p>This OTP is valid for %d minutes.</p>
                <p>If you did not request a password reset, you can ignore this email.</p>
                <p>— The NextBloom Team</p>
            </div>
        </body>
        </html>
    `, otpCode, expiryMinutes)
}

func BuildOrderConfirmationBody(order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.OrderItems {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding:4px 12px;">%s</td><td style="padding:4px 12px;">%d</td><td style="padding:4px 12px;">%s</td></tr>`,
			name, item.Qty, FormatINR(item.Total),
		))
	}

	return fmt.Sprintf(`
        <html>
        <body style="font-family: Arial, sans-serif; color: #333;">
            <div style="max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
                <h2>Order Confirmed - NextBloom</h2>
                <p>Thank you for your order <strong>%s</strong>.</p>
                <table style="border-collapse: collapse;">
                    <tr><th style="padding:4px 12px;">Item</th><th style="padding:4px 12px;">Qty</th><th style="padding:4px 12px;">Total</th></tr>
                    %s
                </table>
                <p>Subtotal: %s<br/>Shipping: %s<br/><strong>Total: %s</strong></p>
                <p>We will let you know as soon as it ships.</p>
                <p>— The NextBloom Team</p>
            </div>
        </body>
        </html>
    `, order.OrderNumber, rows.String(), FormatINR(order.Subtotal), FormatINR(order.ShippingCost), FormatINR(order.Total))
}

func FormatINR(amount decimal.Decimal) string {
	return inr.FormatMoneyDecimal(amount)
}
