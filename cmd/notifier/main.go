// Command notifier consumes quote events and e-mails the site admin about each new request.
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/config"
	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/pkg/mailer"
	"github.com/sevengen/site-backend/pkg/messagequeue"
)

func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	var logger *zap.Logger
	if appConfig.IsRelease() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer logger.Sync()

	if appConfig.AMQPURL == "" || appConfig.AdminNotifyEmail == "" {
		logger.Fatal("AMQP_URL and ADMIN_NOTIFY_EMAIL are required by the notifier")
	}

	queue, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.AMQPURL}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer queue.Close()

	sender := mailer.New(mailer.Config{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		Username: appConfig.SMTPUsername,
		Password: appConfig.SMTPPassword,
		From:     appConfig.MailFrom,
	})
	notifier := core.NewQuoteNotifier(sender, appConfig.AdminNotifyEmail, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Notifier consuming quote events", zap.String("queue", appConfig.QuoteEventsQueue))
	if err := queue.Consume(ctx, appConfig.QuoteEventsQueue, notifier.HandleMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Quote event consumer stopped", zap.Error(err))
		return
	}
	logger.Info("Notifier exiting gracefully.")
}
