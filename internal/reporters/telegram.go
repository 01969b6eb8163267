package reporters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/internal/retry"
	"github.com/urbanops/dataqual/pkg/errors"
	"github.com/urbanops/dataqual/pkg/models"
)

const defaultTelegramAPI = "https://api.telegram.org"

// maxFailedInMessage caps the number of failed checks listed in one message
const maxFailedInMessage = 5

// TelegramConfig holds bot credentials and transport settings
type TelegramConfig struct {
	BotToken   string        `json:"bot_token" yaml:"bot_token"`
	ChatID     string        `json:"chat_id" yaml:"chat_id"`
	APIBaseURL string        `json:"api_base_url" yaml:"api_base_url"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
}

// TelegramReporter pushes report summaries to a Telegram chat. When the bot
// token or chat id is missing the reporter logs a warning and does nothing.
type TelegramReporter struct {
	config TelegramConfig
	client *http.Client
	policy retry.Policy
	logger *logrus.Logger
}

// NewTelegramReporter creates a Telegram reporter
func NewTelegramReporter(config TelegramConfig, logger *logrus.Logger) *TelegramReporter {
	if logger == nil {
		logger = logrus.New()
	}
	if config.APIBaseURL == "" {
		config.APIBaseURL = defaultTelegramAPI
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &TelegramReporter{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		policy: retry.DefaultPolicy(),
		logger: logger,
	}
}

func (r *TelegramReporter) Name() string {
	return "telegram"
}

// Configured reports whether the bot token and chat id are both set
func (r *TelegramReporter) Configured() bool {
	return r.config.BotToken != "" && r.config.ChatID != ""
}

func (r *TelegramReporter) Notify(ctx context.Context, report *models.Report) error {
	if !r.Configured() {
		r.logger.Warn("Telegram reporter not configured, skipping notification")
		return nil
	}

	message := r.formatMessage(report)
	url := fmt.Sprintf("%s/bot%s/sendMessage", r.config.APIBaseURL, r.config.BotToken)

	payload, err := json.Marshal(map[string]interface{}{
		"chat_id":    r.config.ChatID,
		"text":       message,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeTransport, errors.CodeNetworkError, "failed to encode telegram payload")
	}

	err = r.policy.Do(ctx, r.logger, "telegram_send", func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, sendErr := r.client.Do(req)
		if sendErr != nil {
			return sendErr
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeTransport, errors.CodeNetworkError, "failed to send telegram notification")
	}

	r.logger.WithFields(logrus.Fields{
		"report_id": report.ID,
		"suite":     report.SuiteName,
	}).Info("Telegram notification sent")
	return nil
}

func (r *TelegramReporter) formatMessage(report *models.Report) string {
	var b strings.Builder

	verdict := "[OK] PASSED"
	if !report.IsSuccess() {
		verdict = "[FAIL] FAILED"
	}

	fmt.Fprintf(&b, "*Data Quality Report* `%s`\n", report.SuiteName)
	fmt.Fprintf(&b, "Verdict: %s\n\n", verdict)
	fmt.Fprintf(&b, "Rows: %d\n", report.RowCount)
	fmt.Fprintf(&b, "Checks: %d passed / %d total (%.1f%%)\n",
		report.PassedCount(), report.TotalChecks(), report.SuccessRate())

	failed := report.FailedResults()
	if len(failed) > 0 {
		fmt.Fprintf(&b, "\n*Failed checks:*\n")
		limit := len(failed)
		if limit > maxFailedInMessage {
			limit = maxFailedInMessage
		}
		for _, res := range failed[:limit] {
			fmt.Fprintf(&b, "• `%s`: %s\n", res.Name, res.Details)
		}
		if len(failed) > maxFailedInMessage {
			fmt.Fprintf(&b, "and %d more\n", len(failed)-maxFailedInMessage)
		}
	}

	fmt.Fprintf(&b, "\n_%s_", report.Timestamp.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}
