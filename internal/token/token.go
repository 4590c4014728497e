// Package token issues and verifies the HS256 bearer tokens handed to API
// clients. Tokens are stateless: verification never touches the database.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid is returned by Verify for any token that must not be trusted.
// Callers do not learn which check failed.
var ErrInvalid = errors.New("token is invalid or expired")

// Claims carries iat and exp as Timestamps, shadowing the whole-second
// NumericDates of the embedded registered claims.
type Claims struct {
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	IssuedAt  *Timestamp `json:"iat,omitempty"`
	ExpiresAt *Timestamp `json:"exp,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == nil {
		return nil, nil
	}
	return &jwt.NumericDate{Time: c.ExpiresAt.Time}, nil
}

func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == nil {
		return nil, nil
	}
	return &jwt.NumericDate{Time: c.IssuedAt.Time}, nil
}

// Timestamp is a JWT NumericDate kept to the nanosecond. It is written as
// decimal seconds and parsed from the literal without going through float64.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	out := strconv.FormatInt(t.Unix(), 10)
	if ns := t.Nanosecond(); ns != 0 {
		out += "." + strings.TrimRight(fmt.Sprintf("%09d", ns), "0")
	}
	return []byte(out), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parse numeric date: %w", err)
	}

	whole, frac, _ := strings.Cut(n.String(), ".")
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return fmt.Errorf("parse numeric date %q", n)
	}
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fmt.Errorf("parse numeric date %q: %w", n, err)
	}

	var ns int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		ns, _ = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
	}

	t.Time = time.Unix(sec, ns).UTC()
	return nil
}

func isDigits(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}

// Identity maps verified claims onto the domain caller.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{UserID: c.Subject, Email: c.Email, Name: c.Name}
}

type Option func(*Service)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret []byte, opts ...Option) *Service {
	s := &Service{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for id that expires ttl from now.
func (s *Service) Issue(id domain.Identity, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Email:     id.Email,
		Name:      id.Name,
		IssuedAt:  NewTimestamp(now),
		ExpiresAt: NewTimestamp(now.Add(ttl)),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: id.UserID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. A token is expired from the
// instant named in exp onwards.
func (s *Service) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalid
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalid
	}

	if claims.Subject == "" {
		return nil, ErrInvalid
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalid
	}
	return claims, nil
}
