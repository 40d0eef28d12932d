package user

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleConsumer, RoleBusiness, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// SubscriptionStatus mirrors the billing provider's subscription states.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue, SubscriptionCanceled, SubscriptionInactive:
		return true
	default:
		return false
	}
}

// Entitled reports whether the status alone grants access; the period end still applies.
func (s SubscriptionStatus) Entitled() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

// NewSubscriptionStatus accepts provider spellings and folds unknown ones to inactive.
func NewSubscriptionStatus(s string) SubscriptionStatus {
	switch s {
	case "cancelled":
		return SubscriptionCanceled
	case "unpaid", "incomplete", "incomplete_expired", "":
		return SubscriptionInactive
	}
	status := SubscriptionStatus(s)
	if !status.IsValid() {
		return SubscriptionInactive
	}
	return status
}
