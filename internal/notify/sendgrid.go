package notify

import (
	"context"
	"fmt"
	"html"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailPusher struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	appURL    string
}

func NewEmailPusher(apiKey, fromEmail, fromName, appURL string) *EmailPusher {
	return &EmailPusher{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		appURL:    appURL,
	}
}

func (p *EmailPusher) Name() string { return "sendgrid" }

func (p *EmailPusher) Push(ctx context.Context, to *domain.User, n *domain.Notification) error {
	if to.Email == "" {
		return nil
	}
	from := mail.NewEmail(p.fromName, p.fromEmail)
	recipient := mail.NewEmail(to.Name(), to.Email)
	link := p.appURL + n.Link
	plainText, htmlContent := renderEmail(n, link)
	message := mail.NewSingleEmail(from, n.Title, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "userID", to.ID, "notificationID", n.ID)
	response, err := p.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "userID", to.ID)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func renderEmail(n *domain.Notification, link string) (string, string) {
	plainText := fmt.Sprintf("%s\n\n%s\n\n%s", n.Title, n.Description, link)
	htmlContent := fmt.Sprintf(`<html>
	<body>
		<h2>%s</h2>
		<p>%s</p>
		<p><a href="%s">Open SwapCircle</a></p>
	</body>
</html>`, html.EscapeString(n.Title), html.EscapeString(n.Description), html.EscapeString(link))
	return plainText, htmlContent
}
