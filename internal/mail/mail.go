// Package mail отправляет claimant'у письмо о назначении адъюстера.
// Отправка выполняется после фиксации перехода и никогда его не откатывает.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Message содержит данные письма о принятом назначении
type Message struct {
	ClaimantEmail string
	ClaimantName  string
	AssigneeName  string
	ClaimID       string
	Description   string
}

// Subject возвращает тему письма
func (m Message) Subject() string {
	return fmt.Sprintf("Your claim %s has been assigned", m.ClaimID)
}

// Body возвращает текст письма
func (m Message) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", m.ClaimantName)
	fmt.Fprintf(&b, "Your claim %s has been accepted by %s, who will handle it from now on.\n\n", m.ClaimID, m.AssigneeName)
	fmt.Fprintf(&b, "Claim description:\n%s\n", m.Description)
	return b.String()
}

// Sender доставляет одно письмо
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender пишет письмо в лог вместо отправки (MAIL_DRIVER=log)
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender создает LogSender
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send логирует письмо
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("Mail dispatched",
		"to", msg.ClaimantEmail,
		"claim_id", msg.ClaimID,
		"assignee", msg.AssigneeName,
		"subject", msg.Subject(),
	)
	return nil
}
