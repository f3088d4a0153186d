package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gtix/helpdesk/internal/events"
	"github.com/gtix/helpdesk/internal/mail"
)

// NotificationService emits email notifications for ticket events. The
// sender is expected to be non-blocking (the worker mail queue in
// production); errors are logged, never surfaced to ticket operations.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     mail.Sender
	logger     *zap.Logger
	baseURL    string
}

// NewNotificationService creates the service. A nil sender disables delivery
// but handlers stay registered so events remain observable in logs.
func NewNotificationService(dispatcher events.Dispatcher, sender mail.Sender, logger *zap.Logger, baseURL string) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
		baseURL:    baseURL,
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketCreated", zap.Int64("ticket_id", event.TicketID), zap.String("ticket_number", payload.TicketNumber))
	if payload.AssigneeEmail == "" {
		return nil
	}

	subject := "New Ticket Assigned to You"
	message := fmt.Sprintf(`
        <p>Hello %s,</p>
        <p>A new ticket has been assigned to you:</p>
        <ul>
          <li><b>Title:</b> %s</li>
          <li><b>Status:</b> %s</li>
          <li><b>Department:</b> %s</li>
        </ul>
        <p>Kindly check your dashboard for more details.</p>`,
		orDefault(payload.AssigneeName, "Assignee"), payload.Title, payload.Status, payload.DepartmentName)

	n.deliver(payload.AssigneeEmail, subject, message)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketStatusChanged", zap.Int64("ticket_id", event.TicketID), zap.String("new_status", string(payload.NewStatus)))
	if payload.CreatorEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Ticket %s Status Updated", payload.TicketNumber)
	message := fmt.Sprintf(`Hello %s,<p>Your ticket "%s" status has been updated to "%s".</p>Regards,<br/>GTix Support Team`,
		payload.CreatorName, payload.Title, payload.NewStatus)

	n.deliver(payload.CreatorEmail, subject, message)
	return nil
}

// deliver hands the rendered message to the sender; errors are logged,
// never surfaced.
func (n *NotificationService) deliver(to, subject, message string) {
	if n.sender == nil {
		n.logger.Debug("mail transport not configured; dropping notification", zap.String("to", to))
		return
	}
	body := n.renderTemplate(subject, message)
	if err := n.sender.Send(to, subject, body); err != nil {
		n.logger.Warn("failed to send notification email", zap.String("to", to), zap.Error(err))
	}
}

func (n *NotificationService) renderTemplate(subject, message string) string {
	ticketURL := n.baseURL + "/employee/view-tickets?id="
	return fmt.Sprintf(`
      <div style="background:#f6f9fc;padding:40px 0;font-family:Arial, sans-serif;">
        <div style="max-width:600px;margin:auto;background:#fff;border-radius:8px;box-shadow:0 2px 6px rgba(0,0,0,0.08);overflow:hidden;">
          <div style="background:#1a73e8;padding:18px 25px;color:#fff;">
            <h2 style="margin:0;font-weight:500;">Ticket Management System</h2>
          </div>
          <div style="padding:25px 30px;">
            <h3 style="color:#202124;font-weight:500;">%s</h3>
            <p style="color:#5f6368;font-size:15px;line-height:1.6;">%s</p>
            <a href=%s
              style="background:#1a73e8;color:#fff;text-decoration:none;padding:12px 24px;border-radius:6px;display:inline-block;margin-top:20px;">
              View Ticket
            </a>
          </div>
          <div style="border-top:1px solid #e0e0e0;background:#fafafa;padding:15px;text-align:center;font-size:12px;color:#777;">
            &copy; %d Ticket App. All rights reserved.
          </div>
        </div>
      </div>`, subject, message, ticketURL, time.Now().Year())
}

func orDefault(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}
