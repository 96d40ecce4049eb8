package mail

import (
	"context"

	domainmail "github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/mail"

	"github.com/sirupsen/logrus"
)

// ConsoleSender logs outgoing messages instead of delivering them. Used in
// development when no SendGrid API key is configured.
type ConsoleSender struct {
	log *logrus.Logger
}

var _ domainmail.Sender = (*ConsoleSender)(nil)

func NewConsoleSender(log *logrus.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) Send(_ context.Context, msg domainmail.Message) error {
	s.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("console mail sender: message not delivered")
	s.log.Debug(msg.TextBody)
	return nil
}
