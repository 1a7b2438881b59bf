package session

import "errors"

var (
	// ErrInvalidSession is returned when identity data lacks a usable token.
	// Mutators fail closed on it: the session is reset rather than accepted.
	ErrInvalidSession = errors.New("session data lacks a usable token")
	// ErrNoSession is returned by Storage implementations when no persisted
	// identity exists.
	ErrNoSession = errors.New("no stored session found")
	// ErrSaveSession is returned when persisting an identity to durable
	// storage fails.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession is returned when clearing durable storage fails.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrLoginFailed wraps authentication service failures during Login.
	ErrLoginFailed = errors.New("login failed")
)
