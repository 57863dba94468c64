package ai

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("credential is not set")
	ErrMissingModel      = errors.New("model identifier is not set")
	ErrEmptyReply        = errors.New("assistant returned an empty reply")
)

// ConfigurationError reports static configuration that makes session creation impossible.
// It is fatal to session creation and is never retried.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ai configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// RemoteExchangeError reports a failed round trip with the remote assistant.
type RemoteExchangeError struct {
	Provider string
	Err      error
}

func (e *RemoteExchangeError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("remote exchange failed: %v", e.Err)
	}
	return fmt.Sprintf("%s remote exchange failed: %v", e.Provider, e.Err)
}

func (e *RemoteExchangeError) Unwrap() error {
	return e.Err
}
