package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sentinel-sec/sentinel-cli/internal/scan"
)

// SlackNotifier posts scan summaries to a Slack incoming webhook. Reports
// below MinLevel are skipped; notification failure never fails a scan.
type SlackNotifier struct {
	WebhookURL string
	Channel    string
	MinLevel   scan.RiskLevel
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji"`
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
	Footer string       `json:"footer,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewSlackNotifier creates a notifier. An empty minLevel defaults to HIGH.
func NewSlackNotifier(webhookURL, channel string, minLevel scan.RiskLevel) *SlackNotifier {
	if minLevel == "" {
		minLevel = scan.RiskLevelHigh
	}
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Channel:    channel,
		MinLevel:   minLevel,
	}
}

// SendReport posts the report summary if its level reaches MinLevel.
func (s *SlackNotifier) SendReport(r *scan.ScanReport) error {
	if !r.RiskLevel.AtLeast(s.MinLevel) {
		return nil
	}

	text := fmt.Sprintf("🚨 *Behavioral scan complete*\nRisk level *%s* (score %d)", r.RiskLevel, r.RiskScore)

	attachments := []slackAttachment{
		{
			Color: attachmentColor(r.RiskLevel),
			Title: fmt.Sprintf("Summary (%d findings)", len(r.Findings)),
			Fields: []slackField{
				{Title: "Risk Score", Value: fmt.Sprintf("%d", r.RiskScore), Short: true},
				{Title: "Risk Level", Value: string(r.RiskLevel), Short: true},
				{Title: "Findings", Value: fmt.Sprintf("%d", len(r.Findings)), Short: true},
			},
			Footer: "sentinel-scan",
		},
	}

	if len(r.Findings) > 0 {
		findingText := ""
		for i, f := range r.Findings {
			if i >= 5 {
				findingText += fmt.Sprintf("\n_...and %d more_", len(r.Findings)-5)
				break
			}
			findingText += fmt.Sprintf("• *%s* [%s] - %s\n", f.Type, f.Severity, FindingDetail(f))
		}

		attachments = append(attachments, slackAttachment{
			Color: attachmentColor(r.RiskLevel),
			Title: "Detected Behaviors",
			Text:  findingText,
		})
	}

	msg := slackMessage{
		Channel:     s.Channel,
		Username:    "sentinel-scan",
		IconEmoji:   ":shield:",
		Text:        text,
		Attachments: attachments,
	}

	return s.sendMessage(msg)
}

func attachmentColor(level scan.RiskLevel) string {
	switch level {
	case scan.RiskLevelCritical, scan.RiskLevelHigh:
		return "danger"
	case scan.RiskLevelMedium:
		return "warning"
	default:
		return "good"
	}
}

func (s *SlackNotifier) sendMessage(msg slackMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	resp, err := http.Post(s.WebhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned non-200 status: %d", resp.StatusCode)
	}

	return nil
}
