package redemption

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// PayloadVersion tags the QR payload layout.
	PayloadVersion = "2.0"

	manualCodeDigits = 8
	manualCodeSpace  = 100_000_000
	// largest multiple of manualCodeSpace below 2^32, for unbiased sampling
	manualCodeLimit = 42 * manualCodeSpace
)

var (
	ErrInvalidManualCode = errors.New("manual code must be 8 digits")
	ErrInvalidPayload    = errors.New("invalid redemption payload")
)

// PayloadClaims is what the QR code carries. The store stays the source of truth; the claims
// are a lookup key that can be checked for tampering.
type PayloadClaims struct {
	RedemptionID uuid.UUID
	CouponID     uuid.UUID
	UserID       uuid.UUID
	BusinessID   uuid.UUID
	IssuedAt     time.Time
	ExpiresAt    time.Time
	Version      string
}

// PayloadSealer serializes claims into the QR string and back.
type PayloadSealer interface {
	Seal(claims PayloadClaims) (string, error)
	Open(payload string) (PayloadClaims, error)
}

type Token struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CouponID   uuid.UUID
	BusinessID uuid.UUID
	QRPayload  string
	ManualCode string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Generator builds redemption tokens. The random source must be cryptographically strong in
// production (crypto/rand.Reader); tests may pass a deterministic reader.
type Generator struct {
	random io.Reader
	sealer PayloadSealer
}

func NewGenerator(random io.Reader, sealer PayloadSealer) *Generator {
	return &Generator{random: random, sealer: sealer}
}

func (g *Generator) Generate(userID, couponID, businessID uuid.UUID, now time.Time) (Token, error) {
	id, err := uuid.NewRandomFromReader(g.random)
	if err != nil {
		return Token{}, fmt.Errorf("generate redemption id: %w", err)
	}

	code, err := g.manualCode()
	if err != nil {
		return Token{}, err
	}

	issuedAt := now.UTC()
	expiresAt := issuedAt.Add(TokenTTL)

	payload, err := g.sealer.Seal(PayloadClaims{
		RedemptionID: id,
		CouponID:     couponID,
		UserID:       userID,
		BusinessID:   businessID,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
		Version:      PayloadVersion,
	})
	if err != nil {
		return Token{}, fmt.Errorf("seal redemption payload: %w", err)
	}

	return Token{
		ID:         id,
		UserID:     userID,
		CouponID:   couponID,
		BusinessID: businessID,
		QRPayload:  payload,
		ManualCode: code,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
	}, nil
}

func (g *Generator) manualCode() (string, error) {
	var buf [4]byte
	for {
		if _, err := io.ReadFull(g.random, buf[:]); err != nil {
			return "", fmt.Errorf("generate manual code: %w", err)
		}
		v := binary.BigEndian.Uint32(buf[:])
		if v < manualCodeLimit {
			return fmt.Sprintf("%0*d", manualCodeDigits, v%manualCodeSpace), nil
		}
	}
}

// FormatManualCode renders a code as XXXX-XXXX for display.
func FormatManualCode(code string) string {
	if len(code) != manualCodeDigits {
		return code
	}
	return code[:4] + "-" + code[4:]
}

// NormalizeManualCode accepts user input with or without the dash and spaces.
func NormalizeManualCode(input string) (string, error) {
	code := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, input)
	if len(code) != manualCodeDigits {
		return "", ErrInvalidManualCode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", ErrInvalidManualCode
		}
	}
	return code, nil
}
