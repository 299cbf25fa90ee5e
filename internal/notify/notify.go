// Package notify delivers outbound messages to generator owners. Delivery is
// fire-and-forget: callers never see a send error.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Channel is an outbound medium.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// AllChannels is used when a caller does not pick any.
var AllChannels = []Channel{ChannelEmail, ChannelWhatsApp}

// Notice is everything a message about a ticket needs.
type Notice struct {
	TicketNumber   string
	Title          string
	GeneratorName  string
	OwnerEmail     string
	WhatsAppNumber string
	Message        string
}

// Notifier is the collaborator the services talk to.
type Notifier interface {
	TicketCompleted(ctx context.Context, n Notice)
	Custom(ctx context.Context, n Notice, channels []Channel)
}

// EmailSender sends one plain-text email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// WhatsAppSender sends one text message.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, to, body string) error
}

// Dispatcher fans a notice out to the enabled senders on a background
// goroutine. A nil sender disables its channel.
type Dispatcher struct {
	email    EmailSender
	whatsapp WhatsAppSender
	timeout  time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. timeout bounds one notice across all
// channels.
func NewDispatcher(email EmailSender, whatsapp WhatsAppSender, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{email: email, whatsapp: whatsapp, timeout: timeout, logger: logger}
}

// TicketCompleted tells the owner that every job on the ticket is done.
func (d *Dispatcher) TicketCompleted(_ context.Context, n Notice) {
	subject := fmt.Sprintf("Ticket %s completed", n.TicketNumber)
	body := CompletionBody(n)
	d.dispatch(n, AllChannels, subject, body)
}

// Custom delivers an administrator's own text.
func (d *Dispatcher) Custom(_ context.Context, n Notice, channels []Channel) {
	if len(channels) == 0 {
		channels = AllChannels
	}
	subject := fmt.Sprintf("Update on ticket %s", n.TicketNumber)
	d.dispatch(n, channels, subject, CustomBody(n))
}

// Wait blocks until in-flight deliveries finish. Used on shutdown.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) dispatch(n Notice, channels []Channel, subject, body string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		for _, ch := range channels {
			var err error
			switch ch {
			case ChannelEmail:
				if d.email == nil || n.OwnerEmail == "" {
					continue
				}
				err = d.email.SendEmail(ctx, n.OwnerEmail, subject, body)
			case ChannelWhatsApp:
				if d.whatsapp == nil || n.WhatsAppNumber == "" {
					continue
				}
				err = d.whatsapp.SendWhatsApp(ctx, n.WhatsAppNumber, body)
			default:
				continue
			}
			if err != nil {
				d.logger.Warn("notification failed",
					zap.String("channel", string(ch)),
					zap.String("ticket_number", n.TicketNumber),
					zap.Error(err))
				continue
			}
			d.logger.Info("notification sent",
				zap.String("channel", string(ch)),
				zap.String("ticket_number", n.TicketNumber))
		}
	}()
}

// CompletionBody is the text sent when a ticket completes.
func CompletionBody(n Notice) string {
	return fmt.Sprintf("Dear customer,\n\nService ticket %s (%s) for generator %s has been completed.\n\nThank you.",
		n.TicketNumber, n.Title, n.GeneratorName)
}

// CustomBody wraps an administrator message with the ticket reference.
func CustomBody(n Notice) string {
	return fmt.Sprintf("Ticket %s, generator %s:\n\n%s", n.TicketNumber, n.GeneratorName, n.Message)
}

// Nop drops every notice.
type Nop struct{}

func (Nop) TicketCompleted(context.Context, Notice)   {}
func (Nop) Custom(context.Context, Notice, []Channel) {}
