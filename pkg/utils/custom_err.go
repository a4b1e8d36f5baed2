package utils

import "errors"

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrEmailAlreadyExists   = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidPassword      = errors.New("password does not meet the policy")
	ErrInvalidToken         = errors.New("token is invalid or expired")
	ErrSubscriptionInactive = errors.New("subscription inactive")
	ErrSessionNotFound      = errors.New("session not found")
	ErrNoTrialSessionsLeft  = errors.New("no trial call sessions left")
	ErrTrialLimitReached    = errors.New("trial limit reached")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrProtectedAccount     = errors.New("primary admin account is protected")
	ErrDatabaseError        = errors.New("database error")
	ErrCompletionFailed     = errors.New("completion call failed")
	ErrBillingError         = errors.New("billing provider error")
)
