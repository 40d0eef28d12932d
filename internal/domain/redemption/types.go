package redemption

import (
	"errors"
	"time"
)

// TokenTTL is the fixed lifetime of a pending redemption.
const TokenTTL = 60 * time.Second

var ErrInvalidStatus = errors.New("invalid redemption status")

type Status string

const (
	StatusPending   Status = "pending"
	StatusRedeemed  Status = "redeemed"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusRedeemed, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusRedeemed || s == StatusExpired || s == StatusCancelled
}

// CanTransition allows only pending to move, and only to a terminal status.
func (s Status) CanTransition(to Status) bool {
	return s == StatusPending && to.IsTerminal()
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
