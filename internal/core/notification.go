package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/models"
	"github.com/sevengen/site-backend/pkg/messagequeue"
)

// QuoteEventPublisher announces persisted quote requests.
type QuoteEventPublisher interface {
	PublishQuoteSubmitted(ctx context.Context, event models.QuoteSubmittedEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishQuoteSubmitted(context.Context, models.QuoteSubmittedEvent) error {
	return nil
}

// NoopPublisher drops every event. Used when no message broker is configured.
var NoopPublisher QuoteEventPublisher = noopPublisher{}

// queuePublisher publishes events as JSON to a message queue.
type queuePublisher struct {
	queue     messagequeue.MessageQueue
	queueName string
}

// NewQueuePublisher creates a QuoteEventPublisher writing to queueName.
func NewQueuePublisher(queue messagequeue.MessageQueue, queueName string) QuoteEventPublisher {
	return &queuePublisher{queue: queue, queueName: queueName}
}

func (p *queuePublisher) PublishQuoteSubmitted(ctx context.Context, event models.QuoteSubmittedEvent) error {
	event.Type = models.EventTypeQuoteSubmitted
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}
	return p.queue.Publish(ctx, p.queueName, body)
}

// EmailSender sends one e-mail.
type EmailSender interface {
	Send(recipient, subject, body string) error
}

// QuoteNotifier e-mails the site admin about each submitted quote request.
type QuoteNotifier struct {
	sender    EmailSender
	recipient string
	logger    *zap.Logger
}

// NewQuoteNotifier creates a QuoteNotifier sending to recipient.
func NewQuoteNotifier(sender EmailSender, recipient string, logger *zap.Logger) *QuoteNotifier {
	return &QuoteNotifier{sender: sender, recipient: recipient, logger: logger}
}

// HandleMessage decodes a queue message and sends the notification. It matches
// messagequeue.Handler.
func (n *QuoteNotifier) HandleMessage(_ context.Context, body []byte) error {
	var event models.QuoteSubmittedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode quote event: %w", err)
	}
	if event.Type != models.EventTypeQuoteSubmitted {
		n.logger.Warn("Ignoring unexpected event type", zap.String("type", event.Type))
		return nil
	}

	subject := fmt.Sprintf("Nova solicitação de orçamento: %s", event.Name)
	if err := n.sender.Send(n.recipient, subject, QuoteEmailBody(event)); err != nil {
		return fmt.Errorf("failed to notify admin of quote %s: %w", event.QuoteID, err)
	}
	n.logger.Info("Admin notified of quote request", zap.String("quoteID", event.QuoteID))
	return nil
}

// QuoteEmailBody renders the plain-text notification body.
func QuoteEmailBody(event models.QuoteSubmittedEvent) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	b.WriteString("Uma nova solicitação de orçamento foi recebida.\n\n")
	line("Nome", event.Name)
	line("E-mail", event.Email)
	line("Telefone", event.Phone)
	line("Empresa", event.Company)
	line("Serviço", event.Service)
	line("Mensagem", event.Message)
	if event.IsRegisteredUser {
		b.WriteString("Enviado por um usuário cadastrado.\n")
	}
	fmt.Fprintf(&b, "\nID: %s\n", event.QuoteID)
	return b.String()
}
