package alerts

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// MailgunAlerter sends alert emails through the Mailgun messages API.
// The dispatcher only invokes it for critical alerts.
type MailgunAlerter struct {
	domain    string
	recipient string
	client    *resty.Client
}

func NewMailgunAlerter(apiKey, domain, recipient string) *MailgunAlerter {
	client := resty.New().
		SetBaseURL("https://api.mailgun.net").
		SetBasicAuth("api", apiKey).
		SetTimeout(10 * time.Second)

	return &MailgunAlerter{
		domain:    domain,
		recipient: recipient,
		client:    client,
	}
}

func (m *MailgunAlerter) Send(alert Alert) error {
	resp, err := m.client.R().
		SetFormData(map[string]string{
			"from":    fmt.Sprintf("Cobotium Monitor <monitor@%s>", m.domain),
			"to":      m.recipient,
			"subject": fmt.Sprintf("%s %s ALERT: Cobotium Program", emoji(alert.Level), alert.Level.Upper()),
			"text":    alert.Message,
		}).
		Post(fmt.Sprintf("/v3/%s/messages", m.domain))
	if err != nil {
		return fmt.Errorf("failed to send email alert: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("mailgun API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
