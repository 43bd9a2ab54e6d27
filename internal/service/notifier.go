package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/codeteak/backend/internal/metrics"
	"github.com/codeteak/backend/internal/model"
	"github.com/codeteak/backend/pkg/resend"
)

// Notifier receives successfully stored submissions for best-effort,
// out-of-band side effects. Implementations must return immediately and must
// never surface delivery failures to the caller.
type Notifier interface {
	SubmissionReceived(sub *model.Submission)
}

// dispatchTimeout bounds each detached send so a hung provider cannot pin
// goroutines forever.
const dispatchTimeout = 10 * time.Second

// DispatcherConfig carries the addressing configuration for outbound mail
// and the optional spreadsheet-sync webhook.
type DispatcherConfig struct {
	FromEmail  string // sender for both mails
	AdminEmail string // operator address receiving the alert
	BaseURL    string // absolute site URL, used for asset links in mails
	WebhookURL string // optional spreadsheet-sync endpoint; empty disables it
}

// Dispatcher sends an admin alert, a user auto-reply and an optional webhook
// POST for each submission. Every send runs in its own goroutine; failures
// are logged with recipient and submission id so an operator can resend
// manually. There is no retry: a failed send is lost, which is acceptable
// for this notification channel.
type Dispatcher struct {
	mailer   resend.Client
	cfg      DispatcherConfig
	recorder *metrics.Recorder

	httpClient *http.Client
	wg         sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. mailer may be a client constructed
// with an empty key; sends then skip with a debug log instead of failing.
func NewDispatcher(mailer resend.Client, cfg DispatcherConfig, recorder *metrics.Recorder) *Dispatcher {
	if cfg.FromEmail == "" {
		cfg.FromEmail = "onboarding@resend.dev"
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "info@codeteak.com"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://codeteak.com"
	}
	return &Dispatcher{
		mailer:     mailer,
		cfg:        cfg,
		recorder:   recorder,
		httpClient: &http.Client{Timeout: dispatchTimeout},
	}
}

var _ Notifier = (*Dispatcher)(nil)

// SubmissionReceived fans out the three side effects and returns immediately.
// The HTTP response to the submitter is never held open waiting for these.
func (d *Dispatcher) SubmissionReceived(sub *model.Submission) {
	d.spawn("admin_alert", func(ctx context.Context) error {
		return d.sendAdminAlert(ctx, sub)
	})
	d.spawn("auto_reply", func(ctx context.Context) error {
		return d.sendAutoReply(ctx, sub)
	})
	if d.cfg.WebhookURL != "" {
		d.spawn("webhook", func(ctx context.Context) error {
			return d.postWebhook(ctx, sub)
		})
	}
}

// Wait blocks until all in-flight dispatches finish. Called during shutdown
// so detached work is not killed with the process.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) spawn(kind string, send func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			if errors.Is(err, resend.ErrNotConfigured) {
				slog.Debug("notification skipped, mailer not configured", "kind", kind)
				d.recorder.Notification(kind, "skipped")
				return
			}
			slog.Error("notification dispatch failed", "kind", kind, "error", err)
			d.recorder.Notification(kind, "failed")
			return
		}
		d.recorder.Notification(kind, "sent")
	}()
}

func (d *Dispatcher) sendAdminAlert(ctx context.Context, sub *model.Submission) error {
	id, err := d.mailer.Send(ctx, resend.Email{
		From:    d.cfg.FromEmail,
		To:      d.cfg.AdminEmail,
		Subject: fmt.Sprintf("New Contact Form Submission from %s %s", sub.FirstName, sub.LastName),
		HTML:    adminAlertHTML(sub),
		ReplyTo: sub.Email,
	})
	if err != nil {
		return fmt.Errorf("admin alert to %s for %s: %w", d.cfg.AdminEmail, sub.ID, err)
	}
	slog.Info("admin alert sent", "submission_id", sub.ID, "message_id", id)
	return nil
}

func (d *Dispatcher) sendAutoReply(ctx context.Context, sub *model.Submission) error {
	id, err := d.mailer.Send(ctx, resend.Email{
		From:    d.cfg.FromEmail,
		To:      sub.Email,
		Subject: "Thank you for contacting CodeTeak",
		HTML:    autoReplyHTML(sub, d.cfg.BaseURL),
	})
	if err != nil {
		return fmt.Errorf("auto-reply to %s for %s: %w", sub.Email, sub.ID, err)
	}
	slog.Info("auto-reply sent", "submission_id", sub.ID, "message_id", id)
	return nil
}

// postWebhook mirrors the submission to the spreadsheet-sync endpoint.
func (d *Dispatcher) postWebhook(ctx context.Context, sub *model.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook for %s: %w", sub.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook for %s: status %d", sub.ID, resp.StatusCode)
	}
	return nil
}

func adminAlertHTML(sub *model.Submission) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #FC4B01;">New Contact Form Submission</h2>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px;">
    <p><strong>Name:</strong> %s %s</p>
    <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
    <p><strong>Submitted:</strong> %s</p>
  </div>
  <div style="background: #ffffff; padding: 20px; border-left: 4px solid #FC4B01;">
    <h3 style="margin-top: 0;">Message:</h3>
    <p style="white-space: pre-wrap; line-height: 1.6;">%s</p>
  </div>
  <p style="color: #666; font-size: 12px;">This is an automated email from the CodeTeak website contact form.</p>
</div>`,
		html.EscapeString(sub.FirstName), html.EscapeString(sub.LastName),
		html.EscapeString(sub.Email), html.EscapeString(sub.Email),
		sub.Timestamp.Format(time.RFC1123),
		html.EscapeString(sub.Message))
}

func autoReplyHTML(sub *model.Submission, baseURL string) string {
	logoURL := baseURL + "/logo/logo-white.svg"
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px;">
    <div style="padding: 40px 20px 20px; background: linear-gradient(135deg, #FC4B01 0%%, #e04401 100%%); border-radius: 12px 12px 0 0; text-align: center;">
      <img src="%s" alt="CodeTeak Logo" style="max-width: 200px; height: auto;" />
    </div>
    <div style="padding: 40px 30px;">
      <h1 style="color: #FC4B01; font-size: 28px;">Thank You for Contacting CodeTeak!</h1>
      <p style="color: #333333; line-height: 1.6;">Dear %s,</p>
      <p style="color: #333333; line-height: 1.6;">Thank you for reaching out to CodeTeak! We have received your message and will get back to you as soon as possible, typically within 24-48 hours.</p>
      <div style="background-color: #f9f9f9; border-left: 4px solid #FC4B01; padding: 20px; margin: 30px 0;">
        <p style="color: #666666; font-size: 14px; font-weight: bold; text-transform: uppercase;">Your Message:</p>
        <p style="color: #333333; white-space: pre-wrap; line-height: 1.6;">%s</p>
      </div>
      <p style="color: #333333; line-height: 1.6;">Best regards,<br><strong style="color: #FC4B01;">The CodeTeak Team</strong></p>
    </div>
    <div style="padding: 30px; background-color: #f9f9f9; border-radius: 0 0 12px 12px;">
      <p style="color: #999999; font-size: 12px; text-align: center;">This is an automated confirmation email. Please do not reply to this message.</p>
      <p style="color: #999999; font-size: 12px; text-align: center;">© %d CodeTeak. All rights reserved.</p>
    </div>
  </div>
</div>`,
		logoURL, html.EscapeString(sub.FirstName), html.EscapeString(sub.Message), time.Now().Year())
}
