package email

import (
	"context"
	"fmt"
	"html"

	"go.uber.org/zap"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
)

// Notifier avisa al personal cuando se publica una comunicación.
type Notifier interface {
	CommunicationPublished(ctx context.Context, comm *repository.Communication, recipients []*repository.Staff)
}

// NopNotifier descarta toda notificación (notify.communication_emails
// apagado, o sin SMTP configurado).
type NopNotifier struct{}

func (NopNotifier) CommunicationPublished(context.Context, *repository.Communication, []*repository.Staff) {
}

// CommunicationNotifier envía un email por destinatario. Los fallos se
// loguean y no propagan: la publicación ya fue confirmada.
type CommunicationNotifier struct {
	sender Sender
	log    *zap.Logger
}

// NewCommunicationNotifier crea el notifier sobre un Sender.
func NewCommunicationNotifier(sender Sender) *CommunicationNotifier {
	return &CommunicationNotifier{sender: sender, log: logger.Named("email")}
}

func (n *CommunicationNotifier) CommunicationPublished(ctx context.Context, comm *repository.Communication, recipients []*repository.Staff) {
	subject := comm.Title
	if comm.Important {
		subject = "[重要] " + subject
	}
	textBody := comm.Content
	htmlBody := fmt.Sprintf("<p>%s</p>", html.EscapeString(comm.Content))

	for _, st := range recipients {
		if ctx.Err() != nil {
			return
		}
		if !st.Active || st.Email == "" {
			continue
		}
		if err := n.sender.Send(st.Email, subject, htmlBody, textBody); err != nil {
			n.log.Warn("notificación no enviada",
				logger.TenantID(comm.TenantID),
				logger.StaffID(st.ID),
				logger.Err(err))
		}
	}
}
