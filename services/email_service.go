package services

import (
	"fmt"
	"html"
	"modfy_server/lib"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"strings"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
	wg     sync.WaitGroup
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: getEmailClient(cfg.Email.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

// Enabled reports whether an API key is configured.
func (es *EmailService) Enabled() bool {
	return es.cfg.Email.ApiKey != ""
}

func (es *EmailService) SendEmail(to []string, subject, body, text string) error {
	if !es.Enabled() {
		es.logger.Debug("Email sending disabled, skipping", gecho.Field("to", to), gecho.Field("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Text:    text,
		Subject: subject,
	}

	if _, err := es.client.Emails.Send(params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// Go runs send in the background. Failures are logged and counted, never returned.
func (es *EmailService) Go(template string, send func() error) {
	es.wg.Add(1)
	go func() {
		defer es.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				EmailsFailedTotal.WithLabelValues(template).Inc()
				es.logger.Error("Panic while sending email", gecho.Field("template", template), gecho.Field("panic", p))
			}
		}()

		if err := send(); err != nil {
			EmailsFailedTotal.WithLabelValues(template).Inc()
			es.logger.Error("Background email failed", gecho.Field("template", template), gecho.Field("error", err))
			return
		}
		EmailsSentTotal.WithLabelValues(template).Inc()
	}()
}

// Wait blocks until background sends finish. Used on shutdown and in tests.
func (es *EmailService) Wait() {
	es.wg.Wait()
}

const emailStyles = `
	body { font-family: 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #333; }
	.container { max-width: 600px; margin: 0 auto; }
	.header { background: #1a1a1a; color: #fff; padding: 30px 20px; text-align: center; }
	.content { padding: 30px 20px; background: #fff; }
	.button { display: inline-block; padding: 14px 28px; background: #1a1a1a; color: #fff; text-decoration: none; border-radius: 4px; }
	.details { background: #f8f9fa; padding: 15px; margin: 15px 0; border-radius: 6px; }
	ul { list-style-type: none; padding: 0; }
	li { padding: 6px 0; border-bottom: 1px solid #eee; }
	.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
`

func (es *EmailService) layout(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>%s</style></head>
<body>
	<div class="container">
		<div class="header"><h1>%s</h1></div>
		<div class="content">%s</div>
		<div class="footer"><p>%s | Premium menswear essentials</p></div>
	</div>
</body>
</html>`, emailStyles, html.EscapeString(title), content, html.EscapeString(es.cfg.Server.AppName))
}

func displayName(firstName, lastName string) string {
	name := strings.TrimSpace(firstName + " " + lastName)
	if name == "" {
		return "there"
	}
	return name
}

func (es *EmailService) SendWelcomeEmail(user *tables.User) error {
	name := html.EscapeString(displayName(user.FirstName, user.LastName))
	content := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thank you for creating an account. You can now save products to your wishlist, check out faster and follow your orders.</p>
		<p style="text-align: center;"><a href="%s" class="button">Start shopping</a></p>
		<p>Best regards,<br/>The %s Team</p>`,
		name, html.EscapeString(es.cfg.Server.FrontendURL), html.EscapeString(es.cfg.Server.AppName))

	subject := fmt.Sprintf("Welcome to %s - Your Premium Journey Begins", es.cfg.Server.AppName)
	return es.SendEmail([]string{user.Email}, subject, es.layout("Welcome", content), "Welcome to "+es.cfg.Server.AppName)
}

func (es *EmailService) SendVerificationEmail(user *tables.User, link string) error {
	content := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Please confirm your email address by clicking the button below.</p>
		<p style="text-align: center;"><a href="%s" class="button">Verify email</a></p>
		<p>This link expires in %.0f hours. If you did not create an account you can ignore this email.</p>`,
		html.EscapeString(displayName(user.FirstName, user.LastName)),
		html.EscapeString(link),
		es.cfg.Auth.VerificationExpiry.Hours())

	return es.SendEmail([]string{user.Email}, "Verify your email address", es.layout("Verify your email", content), "Verify your email: "+link)
}

func (es *EmailService) orderItemsList(order *tables.Order) string {
	var b strings.Builder
	for _, item := range order.Items {
		variant := strings.TrimSpace(strings.Join([]string{item.Size, item.Color}, " "))
		if variant != "" {
			variant = " (" + variant + ")"
		}
		fmt.Fprintf(&b, "<li>%dx %s%s - %s</li>",
			item.Quantity,
			html.EscapeString(item.ProductName),
			html.EscapeString(variant),
			lib.FormatMoney(es.cfg.Shop.Currency, item.TotalPrice))
	}
	return b.String()
}

func formatAddressHTML(addr tables.DeliveryAddress) string {
	lines := []string{addr.FullName, addr.AddressLine1}
	if addr.AddressLine2 != "" {
		lines = append(lines, addr.AddressLine2)
	}
	lines = append(lines, strings.TrimSpace(addr.City+" "+addr.PostalCode))

	escaped := make([]string, 0, len(lines))
	for _, l := range lines {
		escaped = append(escaped, html.EscapeString(l))
	}
	return strings.Join(escaped, "<br>")
}

func (es *EmailService) SendOrderConfirmationEmail(to, name string, order *tables.Order) error {
	total := lib.FormatMoney(es.cfg.Shop.Currency, order.TotalAmount)
	content := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thank you for your order. We will confirm it with you on WhatsApp shortly.</p>
		<div class="details">
			<h3>Order number: <strong>%s</strong></h3>
			<ul>%s</ul>
			<p><strong>Total: %s</strong></p>
			<h4>Delivery address</h4>
			<p>%s</p>
		</div>
		<p>Questions? Reply to this email or message us on WhatsApp.</p>`,
		html.EscapeString(name), html.EscapeString(order.OrderNumber), es.orderItemsList(order), total,
		formatAddressHTML(order.DeliveryAddress))

	subject := "Order Confirmation - " + order.OrderNumber
	text := fmt.Sprintf("Thank you for your order %s. Total: %s", order.OrderNumber, total)
	return es.SendEmail([]string{to}, subject, es.layout("Thank you for your order!", content), text)
}

func (es *EmailService) SendAdminOrderNotification(customerName string, order *tables.Order) error {
	if es.cfg.Email.AdminEmail == "" {
		return nil
	}

	total := lib.FormatMoney(es.cfg.Shop.Currency, order.TotalAmount)
	notes := ""
	if order.Notes != "" {
		notes = "<p><strong>Notes:</strong> " + html.EscapeString(order.Notes) + "</p>"
	}
	content := fmt.Sprintf(`
		<div class="details">
			<h3>Order %s</h3>
			<p><strong>Customer:</strong> %s</p>
			<p><strong>Email:</strong> %s</p>
			<p><strong>Phone:</strong> %s</p>
			<ul>%s</ul>
			<p><strong>Total: %s</strong></p>
			<h4>Delivery address</h4>
			<p>%s</p>
			%s
		</div>`,
		html.EscapeString(order.OrderNumber), html.EscapeString(customerName), html.EscapeString(order.CustomerEmail),
		html.EscapeString(order.PhoneNumber), es.orderItemsList(order), total, formatAddressHTML(order.DeliveryAddress), notes)

	subject := "New Order Received - " + order.OrderNumber
	text := fmt.Sprintf("New order received: %s for %s. Customer: %s", order.OrderNumber, total, customerName)
	return es.SendEmail([]string{es.cfg.Email.AdminEmail}, subject, es.layout("New order", content), text)
}

func (es *EmailService) SendOrderStatusEmail(to, name string, order *tables.Order) error {
	status := string(order.Status)
	content := fmt.Sprintf(`
		<h2>Order Update - %s</h2>
		<p>Hi %s,</p>
		<p>Your order <strong>%s</strong> has been <strong>%s</strong>.</p>
		<ul>%s</ul>
		<p>If you have any questions, reply to this email or contact our support team.</p>`,
		html.EscapeString(order.OrderNumber), html.EscapeString(name), html.EscapeString(order.OrderNumber),
		html.EscapeString(strings.ToUpper(status)), es.orderItemsList(order))

	subject := fmt.Sprintf("Your Order %s has been %s", order.OrderNumber, status)
	text := fmt.Sprintf("Your order %s status is now %s.", order.OrderNumber, status)
	return es.SendEmail([]string{to}, subject, es.layout("Order update", content), text)
}

func (es *EmailService) SendContactNotification(msg *tables.ContactMessage) error {
	if es.cfg.Email.AdminEmail == "" {
		return nil
	}

	content := fmt.Sprintf(`
		<div class="details">
			<p><strong>From:</strong> %s &lt;%s&gt;</p>
			<p><strong>Phone:</strong> %s</p>
			<p><strong>Subject:</strong> %s</p>
			<p>%s</p>
		</div>`,
		html.EscapeString(msg.Name), html.EscapeString(msg.Email), html.EscapeString(msg.Phone),
		html.EscapeString(msg.Subject), strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))

	subject := "New Contact Message - " + msg.Subject
	return es.SendEmail([]string{es.cfg.Email.AdminEmail}, subject, es.layout("New contact message", content), msg.Message)
}
