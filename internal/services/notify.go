package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/taskhub-dev/taskhub/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue  = 3447003  // #3498DB - Member added
	ColorGreen = 65280    // #00FF00 - Task assigned

	WebhookUsername = "TaskHub"
)

// SendMemberAddedNotification posts to the project's configured webhooks.
// Projects without webhook URLs are a no-op.
func SendMemberAddedNotification(project models.Project, membership models.ProjectMember) error {
	if project.DiscordWebhook != "" {
		payload := DiscordWebhookRequest{
			Username: WebhookUsername,
			Embeds: []DiscordEmbed{
				{
					Title:       "New project member",
					Description: fmt.Sprintf("**%s** joined **%s**.", membership.User.Name, project.Name),
					Color:       ColorBlue,
					Fields: []DiscordWebhookField{
						{Name: "Member", Value: membership.User.Name, Inline: true},
						{Name: "Role", Value: membership.Role, Inline: true},
					},
					Footer:    &DiscordFooter{Text: fmt.Sprintf("Project: %s | TaskHub", project.Name)},
					Timestamp: time.Now().Format(time.RFC3339),
				},
			},
		}

		if err := sendDiscordWebhook(project.DiscordWebhook, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if project.SlackWebhook != "" {
		payload := SlackWebhookRequest{
			Username: WebhookUsername,
			Text:     fmt.Sprintf("*%s* joined *%s*", membership.User.Name, project.Name),
			Attachments: []SlackAttachment{
				{
					Color: "good",
					Title: "New project member",
					Fields: []SlackField{
						{Title: "Member", Value: membership.User.Name, Short: true},
						{Title: "Role", Value: membership.Role, Short: true},
					},
					Footer:    fmt.Sprintf("Project: %s", project.Name),
					Timestamp: time.Now().Unix(),
				},
			},
		}

		if err := sendSlackWebhook(project.SlackWebhook, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func SendTaskAssignedNotification(project models.Project, task models.Task) error {
	assignee := "Unassigned"
	if task.Assignee != nil {
		assignee = task.Assignee.Name
	}

	if project.DiscordWebhook != "" {
		payload := DiscordWebhookRequest{
			Username: WebhookUsername,
			Embeds: []DiscordEmbed{
				{
					Title:       "Task assigned",
					Description: fmt.Sprintf("**%s** was assigned to **%s**.", task.Title, assignee),
					Color:       ColorGreen,
					Fields: []DiscordWebhookField{
						{Name: "Task", Value: task.Title, Inline: true},
						{Name: "Assignee", Value: assignee, Inline: true},
						{Name: "Priority", Value: task.Priority, Inline: true},
					},
					Footer:    &DiscordFooter{Text: fmt.Sprintf("Project: %s | TaskHub", project.Name)},
					Timestamp: time.Now().Format(time.RFC3339),
				},
			},
		}

		if err := sendDiscordWebhook(project.DiscordWebhook, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if project.SlackWebhook != "" {
		payload := SlackWebhookRequest{
			Username: WebhookUsername,
			Text:     fmt.Sprintf("*%s* was assigned to *%s*", task.Title, assignee),
			Attachments: []SlackAttachment{
				{
					Color: "good",
					Title: "Task assigned",
					Fields: []SlackField{
						{Title: "Task", Value: task.Title, Short: true},
						{Title: "Assignee", Value: assignee, Short: true},
						{Title: "Priority", Value: task.Priority, Short: true},
					},
					Footer:    fmt.Sprintf("Project: %s", project.Name),
					Timestamp: time.Now().Unix(),
				},
			},
		}

		if err := sendSlackWebhook(project.SlackWebhook, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
