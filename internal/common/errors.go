// Package common defines shared sentinel errors used across the askpdf
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrClaimDecode        = errors.New("cannot decode token claims")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthorized       = errors.New("unauthorized")

	// Registry errors.
	ErrUnknownProject = errors.New("unknown project")

	// Conversation errors.
	ErrEmptyMessage = errors.New("empty message")
	ErrSendInFlight = errors.New("send already in flight")
	ErrNoSuchThread = errors.New("no conversation loaded")

	// Transport errors.
	ErrUnavailable = errors.New("server unavailable")
)
