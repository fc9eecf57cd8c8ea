package types

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type AccountStatus string

const (
	AccountStatusActive            AccountStatus = "ACTIVE"
	AccountStatusPendingValidation AccountStatus = "PENDING_VALIDATION"
	AccountStatusInactive          AccountStatus = "INACTIVE"
)
