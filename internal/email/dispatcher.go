package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JasonLinn/cryo-booking/internal/domain"
)

// Dispatcher turns booking events into emails. When no sender is configured
// every event is logged and dropped.
type Dispatcher struct {
	sender      Sender
	adminEmails []string
	loc         *time.Location
	log         *slog.Logger
}

func NewDispatcher(sender Sender, adminEmails []string, loc *time.Location, log *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, adminEmails: adminEmails, loc: loc, log: log}
}

// HandleMessage decodes a broker payload. Undecodable payloads are logged
// and acknowledged so they do not block the queue.
func (d *Dispatcher) HandleMessage(ctx context.Context, payload []byte) error {
	var event domain.BookingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		d.log.Error("decode booking event", slog.String("error", err.Error()))
		return nil
	}
	return d.Handle(ctx, event)
}

func (d *Dispatcher) Handle(ctx context.Context, event domain.BookingEvent) error {
	messages, err := d.messagesFor(event)
	if err != nil {
		return err
	}
	if d.sender == nil {
		d.log.Warn("email delivery not configured, skipping",
			slog.String("type", event.Type), slog.String("booking_id", event.BookingID))
		return nil
	}

	var errs []error
	for _, msg := range messages {
		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Error("send email failed",
				slog.String("type", event.Type),
				slog.String("booking_id", event.BookingID),
				slog.Any("to", msg.To),
				slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		d.log.Info("email sent",
			slog.String("type", event.Type), slog.String("booking_id", event.BookingID), slog.Any("to", msg.To))
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) messagesFor(event domain.BookingEvent) ([]Message, error) {
	data := templateData{
		Name:          event.UserName,
		Email:         event.UserEmail,
		EquipmentName: event.EquipmentName,
		StartTime:     event.StartTime,
		EndTime:       event.EndTime,
		Purpose:       event.Purpose,
		Reason:        event.Reason,
		Location:      d.loc,
	}
	if data.Name == "" {
		data.Name = "User"
	}

	var messages []Message
	add := func(to []string, subject, tpl string) error {
		if len(to) == 0 {
			return nil
		}
		body, err := render(tpl, data)
		if err != nil {
			return err
		}
		messages = append(messages, Message{To: to, Subject: subject, HTML: body})
		return nil
	}
	user := nonEmpty(event.UserEmail)

	var err error
	switch event.Type {
	case domain.EventBookingCreated:
		if err = add(user, "Booking request received", tplBookingRequest); err == nil {
			err = add(d.adminEmails, "New booking request: "+event.EquipmentName, tplAdminNotice)
		}
	case domain.EventBookingApproved:
		err = add(user, "Booking approved", tplApproved)
	case domain.EventBookingRejected:
		err = add(user, "Booking rejected", tplRejected)
	default:
		return nil, fmt.Errorf("unknown booking event type %q", event.Type)
	}
	return messages, err
}

func nonEmpty(addr string) []string {
	if addr == "" {
		return nil
	}
	return []string{addr}
}
