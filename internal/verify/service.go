package verify

import (
	"fmt"
	"log"
)

// Mailer delivers a verification code to an email address.
type Mailer interface {
	SendCode(email, code string) error
}

// OperatorNotifier mirrors messages to the operator chat.
type OperatorNotifier interface {
	Notify(text string) error
}

// Service issues and checks verification codes, mirroring every issued
// code to the operator. Delivery failures on either channel are logged
// and swallowed; the caller only sees whether a ticket was created.
type Service struct {
	store    *Store
	mailer   Mailer
	notifier OperatorNotifier
}

// NewService wires the ticket store with optional delivery channels.
// Either channel may be nil when not configured.
func NewService(store *Store, mailer Mailer, notifier OperatorNotifier) *Service {
	return &Service{store: store, mailer: mailer, notifier: notifier}
}

// SendCode generates and stores a code for the email, then attempts
// delivery. The code is returned so front ends can decide what to reveal.
func (s *Service) SendCode(email string) (string, error) {
	code, err := s.store.Issue(email)
	if err != nil {
		return "", err
	}

	delivered := false
	if s.mailer != nil {
		if err := s.mailer.SendCode(email, code); err != nil {
			log.Printf("verify: email delivery failed email=%s err=%v", email, err)
		} else {
			delivered = true
		}
	}

	if s.notifier != nil {
		outcome := "email NETRIMIS"
		if delivered {
			outcome = "email trimis"
		}
		msg := fmt.Sprintf("Cod verificare pentru %s: %s (%s)", email, code, outcome)
		if err := s.notifier.Notify(msg); err != nil {
			log.Printf("verify: operator mirror failed err=%v", err)
		}
	}

	return code, nil
}

// CheckCode validates a submitted code against the stored ticket.
func (s *Service) CheckCode(email, code string) bool {
	return s.store.Check(email, code)
}
