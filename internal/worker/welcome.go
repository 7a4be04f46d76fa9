package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-registry/config"
	"github.com/oksasatya/user-registry/internal/domain/entity"
	"github.com/oksasatya/user-registry/pkg/mailer"
	mailtpl "github.com/oksasatya/user-registry/pkg/mailer/templates"
)

// ErrPermanent marks messages that will never succeed and must not be requeued.
var ErrPermanent = errors.New("permanent failure")

// WelcomeHandler turns user.created events into welcome emails.
type WelcomeHandler struct {
	Sender mailer.Sender
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewWelcomeHandler(sender mailer.Sender, cfg *config.Config, logger *logrus.Logger) *WelcomeHandler {
	return &WelcomeHandler{Sender: sender, Cfg: cfg, Logger: logger}
}

// Handle processes one delivery. Other event types are skipped without error.
func (h *WelcomeHandler) Handle(ctx context.Context, body []byte) error {
	var ev entity.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode event: %v: %w", err, ErrPermanent)
	}
	if ev.Type != entity.UserCreated {
		return nil
	}
	if ev.Email == "" {
		return fmt.Errorf("user %d has no email: %w", ev.UserID, ErrPermanent)
	}

	name := ev.FirstName
	if ev.LastName != "" {
		name += " " + ev.LastName
	}
	data := mailtpl.NewEmailData(h.Cfg, name, ev.Email, mailtpl.WithTime(ev.OccurredAt))
	job, err := mailer.NewTemplateJob(ev.Email, mailtpl.Welcome, data)
	if err != nil {
		return fmt.Errorf("render welcome: %v: %w", err, ErrPermanent)
	}

	if err := h.Sender.Send(ctx, job); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	h.Logger.WithFields(logrus.Fields{"user_id": ev.UserID, "to": ev.Email}).Info("welcome email sent")
	return nil
}
