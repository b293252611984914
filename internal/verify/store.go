package verify

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/idna"
)

const codeLength = 6

// ErrInvalidEmail indicates the address failed syntactic or domain checks.
var ErrInvalidEmail = errors.New("email format is invalid")

// Ticket holds an issued verification code for one email address.
type Ticket struct {
	Code     string
	IssuedAt time.Time
}

// Store keeps verification tickets in memory, one per email. Tickets are
// single-use and expire after the configured TTL; re-requesting a code
// overwrites the previous ticket.
type Store struct {
	mu         sync.Mutex
	tickets    map[string]Ticket
	ttl        time.Duration
	masterCode string
	now        func() time.Time
}

// StoreOption configures optional store behaviour.
type StoreOption func(*Store)

// WithClock overrides the time source, useful in tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore builds a ticket store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration, masterCode string, opts ...StoreOption) *Store {
	s := &Store{
		tickets:    make(map[string]Ticket),
		ttl:        ttl,
		masterCode: strings.TrimSpace(masterCode),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue generates a fresh 6-digit code for the email, replacing any prior
// unconsumed ticket.
func (s *Store) Issue(email string) (string, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return "", err
	}

	code, err := generateNumericCode(codeLength)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.tickets[email] = Ticket{Code: code, IssuedAt: s.now()}
	s.mu.Unlock()
	return code, nil
}

// Check validates a submitted code. The master code always succeeds.
// A matching stored code is consumed; a mismatch, an expired ticket or an
// absent ticket fails without side effects.
func (s *Store) Check(email, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	if s.masterCode != "" && code == s.masterCode {
		return true
	}

	email, err := NormalizeEmail(email)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[email]
	if !ok {
		return false
	}
	if s.ttl > 0 && s.now().Sub(ticket.IssuedAt) > s.ttl {
		delete(s.tickets, email)
		return false
	}
	if ticket.Code != code {
		return false
	}
	delete(s.tickets, email)
	return true
}

// NormalizeEmail lowercases and validates an address, including an IDNA
// check on the domain part.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "", ErrInvalidEmail
	}
	domain := email[at+1:]
	if !strings.Contains(domain, ".") {
		return "", ErrInvalidEmail
	}
	if ascii, err := idna.Lookup.ToASCII(domain); err != nil || ascii == "" {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func generateNumericCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
