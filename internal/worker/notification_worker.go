package worker

import (
	"sync"

	"go.uber.org/zap"

	"github.com/gtix/helpdesk/internal/mail"
	"github.com/gtix/helpdesk/internal/service"
)

const mailQueueDepth = 64

type mailJob struct {
	to      string
	subject string
	body    string
}

// MailQueue delivers email on a background goroutine so SMTP latency never
// sits on the request path. It satisfies mail.Sender; Send enqueues and
// returns immediately. When the queue is full the message is dropped with a
// warning rather than blocking the caller.
type MailQueue struct {
	sender mail.Sender
	logger *zap.Logger
	jobs   chan mailJob
	once   sync.Once
	done   chan struct{}
}

// NewMailQueue starts the delivery goroutine.
func NewMailQueue(sender mail.Sender, logger *zap.Logger) *MailQueue {
	q := &MailQueue{
		sender: sender,
		logger: logger,
		jobs:   make(chan mailJob, mailQueueDepth),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *MailQueue) Send(to, subject, body string) error {
	select {
	case q.jobs <- mailJob{to: to, subject: subject, body: body}:
	default:
		q.logger.Warn("mail queue full, dropping notification", zap.String("to", to))
	}
	return nil
}

func (q *MailQueue) run() {
	defer close(q.done)
	for job := range q.jobs {
		if err := q.sender.Send(job.to, job.subject, job.body); err != nil {
			q.logger.Warn("failed to send notification email", zap.String("to", job.to), zap.Error(err))
		}
	}
}

// Stop drains queued messages and waits for the delivery goroutine to exit.
// Safe to call more than once.
func (q *MailQueue) Stop() {
	q.once.Do(func() { close(q.jobs) })
	<-q.done
}

// StartNotificationWorker subscribes the notification handlers to the event
// dispatcher. A nil service is a no-op so callers can wire it unconditionally.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
