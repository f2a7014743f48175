// Package notify tells the community admins about new sign-ups.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/segmentio/kafka-go"

	"CODIGOCERTO_BACK-END/internal/config"
	"CODIGOCERTO_BACK-END/internal/dto"
	"CODIGOCERTO_BACK-END/internal/models"
	"CODIGOCERTO_BACK-END/internal/utils"
)

// AdminNotifier delivers one notification per registered applicant. No retries.
type AdminNotifier interface {
	NotifyAdmin(ctx context.Context, applicant models.Applicant) error
}

// New returns the notifier selected by cfg.Admin.Notifier
func New(cfg *config.Config, mailer utils.Mailer) (AdminNotifier, error) {
	switch cfg.Admin.Notifier {
	case config.NotifierKafka:
		return NewKafkaNotifier(cfg.Kafka), nil
	case config.NotifierMail, "":
		return NewMailNotifier(mailer, cfg.AdminRecipient()), nil
	}
	return nil, fmt.Errorf("unknown admin notifier %q", cfg.Admin.Notifier)
}

var adminMailTmpl = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html lang="pt-br">
<body style="font-family: Roboto, sans-serif;">
  <h2 style="color: #D53535;">Novo cadastro de {{.Kind}}</h2>
  <table cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr><td><strong>Nome</strong></td><td>{{.Name}}</td></tr>
    <tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
    <tr><td><strong>Telefone</strong></td><td>{{.Phone}}</td></tr>
    <tr><td><strong>País</strong></td><td>{{.Country}}</td></tr>
    <tr><td><strong>Função pretendida</strong></td><td>{{.DesiredRole}}</td></tr>
    <tr><td><strong>Disponibilidade</strong></td><td>{{.Availability}}</td></tr>
    <tr><td><strong>LinkedIn</strong></td><td>{{.LinkedIn}}</td></tr>
    <tr><td><strong>Deseja liderar</strong></td><td>{{if .WillingToLead}}Sim{{else}}Não{{end}}</td></tr>
    <tr><td><strong>Experiência</strong></td><td>{{.Experience}}</td></tr>
    <tr><td><strong>Cadastrado em</strong></td><td>{{.CreatedAt}}</td></tr>
  </table>
</body>
</html>
`))

// MailNotifier emails the applicant record to a fixed admin address
type MailNotifier struct {
	mailer    utils.Mailer
	recipient string
}

// NewMailNotifier creates a notifier that sends through mailer to recipient
func NewMailNotifier(mailer utils.Mailer, recipient string) *MailNotifier {
	return &MailNotifier{mailer: mailer, recipient: recipient}
}

func (n *MailNotifier) NotifyAdmin(ctx context.Context, applicant models.Applicant) error {
	if n.recipient == "" {
		return fmt.Errorf("admin notification recipient not configured")
	}

	row := dto.NewApplicantResponse(applicant)
	var body bytes.Buffer
	if err := adminMailTmpl.Execute(&body, row); err != nil {
		return fmt.Errorf("render admin notification: %w", err)
	}

	subject := fmt.Sprintf("Novo cadastro: %s (%s)", row.Name, row.Kind)
	if err := n.mailer.Send(ctx, n.recipient, subject, body.String()); err != nil {
		return fmt.Errorf("send admin notification: %w", err)
	}
	return nil
}

// EventApplicantRegistered is the type of every event published by KafkaNotifier
const EventApplicantRegistered = "applicant.registered"

// Event is the JSON payload published to the admin topic
type Event struct {
	Type       string                `json:"type"`
	Applicant  dto.ApplicantResponse `json:"applicant"`
	OccurredAt time.Time             `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes sign-up events for an admin-side consumer
type KafkaNotifier struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaNotifier creates a notifier writing to cfg.Topic on cfg.Brokers
func NewKafkaNotifier(cfg config.KafkaConfig) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		now: time.Now,
	}
}

func (n *KafkaNotifier) NotifyAdmin(ctx context.Context, applicant models.Applicant) error {
	payload, err := json.Marshal(Event{
		Type:       EventApplicantRegistered,
		Applicant:  dto.NewApplicantResponse(applicant),
		OccurredAt: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal applicant event: %w", err)
	}

	// keyed by email so events for the same applicant stay on one partition
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(applicant.User.Email),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish applicant event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
