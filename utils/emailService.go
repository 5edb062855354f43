package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid. Failures are logged and
// returned; callers on the request path fire these from a goroutine so a
// mail outage never blocks a payment decision.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Printf("[EMAIL] Skipping '%s' to %s: SendGrid not configured", subject, toEmail)
		return nil
	}

	from := mail.NewEmail("LMS Billing", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending '%s' to %s: %v", subject, toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[EMAIL] SendGrid returned %d for '%s' to %s", resp.StatusCode, subject, toEmail)
		return fmt.Errorf("sendgrid returned %d", resp.StatusCode)
	}

	return nil
}

// SendPaymentVerifiedEmail notifies a student that a payment was accepted
func SendPaymentVerifiedEmail(toEmail, toName, invoiceNumber string, amount, remaining float64) error {
	subject := fmt.Sprintf("Payment received for invoice %s", invoiceNumber)
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your payment of <b>%.2f BDT</b> against invoice <b>%s</b> has been verified.</p>
		<p>Remaining balance: <b>%.2f BDT</b>.</p>`,
		toName, amount, invoiceNumber, remaining)
	if remaining == 0 {
		body += "<p>Your invoice is fully paid and your seat is confirmed. Welcome aboard!</p>"
	}
	return SendEmail(toEmail, toName, subject, emailTemplate(subject, body))
}

// SendPaymentRejectedEmail notifies a student that a payment was rejected
func SendPaymentRejectedEmail(toEmail, toName, invoiceNumber, reason string) error {
	subject := fmt.Sprintf("Payment rejected for invoice %s", invoiceNumber)
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your payment claim against invoice <b>%s</b> was rejected.</p>
		<p>Reason: %s</p>
		<p>Please re-submit with the correct details or contact support.</p>`,
		toName, invoiceNumber, reason)
	return SendEmail(toEmail, toName, subject, emailTemplate(subject, body))
}

// emailTemplate wraps body content in the standard layout
func emailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LMS</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LMS. All rights reserved.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
