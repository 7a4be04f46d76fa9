package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/user-registry/config"
	"github.com/oksasatya/user-registry/internal/domain/entity"
	"github.com/oksasatya/user-registry/internal/worker"
	"github.com/oksasatya/user-registry/pkg/helpers"
	"github.com/oksasatya/user-registry/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-welcome-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; welcome worker disabled")
		return
	}
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("welcome worker stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	if cfg.RabbitMQURL == "" || cfg.RabbitMQUserEventsQueue == "" {
		return errors.New("rabbitmq not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		return errors.New("mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQUserEventsQueue); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQUserEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	handler := worker.NewWelcomeHandler(
		mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		cfg,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			if msg.Type != "" && msg.Type != string(entity.UserCreated) {
				_ = msg.Ack(false)
				continue
			}
			c, cancelMsg := context.WithTimeout(ctx, 15*time.Second)
			err := handler.Handle(c, msg.Body)
			cancelMsg()
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, worker.ErrPermanent):
				logger.WithError(err).Warn("dropping message")
				_ = msg.Nack(false, false)
			default:
				logger.WithError(err).Error("welcome email failed; requeueing")
				_ = msg.Nack(false, true)
			}
		}
	}()

	logger.WithField("queue", cfg.RabbitMQUserEventsQueue).Info("welcome worker listening")
	<-stop
	logger.Info("shutting down")
	cancel()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
	return nil
}
