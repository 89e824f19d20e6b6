package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/groupescape/escape-houses/pkg/config"
	"github.com/hibiken/asynq"
	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

type Handler struct {
	logger *slog.Logger
	mail   *mailjet.Client
	cfg    config.MailConfig
}

func NewHandler(logger *slog.Logger, cfg config.MailConfig) *Handler {
	var client *mailjet.Client
	if cfg.APIKey != "" {
		client = mailjet.NewMailjetClient(cfg.APIKey, cfg.APISecret)
	}
	return &Handler{logger: logger, mail: client, cfg: cfg}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeWelcomeEmail, h.HandleWelcomeEmail)
}

// HandleWelcomeEmail sends the post-signup welcome mail. The mail is
// best-effort: delivery failures are logged and the task is not retried,
// since re-sending a stale welcome email days later helps nobody.
func (h *Handler) HandleWelcomeEmail(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if h.mail == nil {
		h.logger.Warn("mailjet not configured, skipping welcome email", "email", payload.Email)
		return nil
	}

	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{
			{
				From: &mailjet.RecipientV31{
					Email: h.cfg.Sender,
					Name:  h.cfg.SenderName,
				},
				To: &mailjet.RecipientsV31{
					{Email: payload.Email, Name: payload.Name},
				},
				Subject:  "Welcome to Group Escape Houses",
				TextPart: welcomeText(payload.Name),
			},
		},
	}

	if _, err := h.mail.SendMailV31(&messages); err != nil {
		h.logger.Error("failed to send welcome email", "email", payload.Email, "error", err)
		return nil
	}

	h.logger.Info("sent welcome email", "email", payload.Email)
	return nil
}

func welcomeText(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		"Hi %s,\n\nThanks for joining Group Escape Houses. You can browse and enquire about houses for your next group getaway right away.\n\nThe Group Escape Houses team",
		name,
	)
}
