package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const webhookTimeout = 10 * time.Second

// DiscordAlerter posts alerts to a Discord webhook.
type DiscordAlerter struct {
	WebhookURL string
	client     *http.Client
}

type discordMessage struct {
	Content  string  `json:"content"`
	Username string  `json:"username,omitempty"`
	Embeds   []embed `json:"embeds,omitempty"`
}

type embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       int     `json:"color"`
	Fields      []field `json:"fields,omitempty"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

func NewDiscordAlerter(webhookURL string) *DiscordAlerter {
	return &DiscordAlerter{
		WebhookURL: webhookURL,
		client:     &http.Client{Timeout: webhookTimeout},
	}
}

func (d *DiscordAlerter) Send(alert Alert) error {
	color := 0x7289DA // Discord blue
	switch alert.Level {
	case Critical:
		color = 0xFF0000
	case Warning:
		color = 0xFFA500
	}

	msg := discordMessage{
		Username: "Cobotium Monitor",
		Content:  fmt.Sprintf("%s **%s**: %s", emoji(alert.Level), alert.Level.Upper(), alert.Message),
		Embeds: []embed{{
			Title:       fmt.Sprintf("%s alert", alert.Level),
			Description: alert.Message,
			Color:       color,
			Fields: []field{
				{Name: "Time", Value: alert.Timestamp.Format(time.RFC3339), Inline: true},
			},
		}},
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal discord message: %w", err)
	}

	resp, err := d.client.Post(d.WebhookURL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
