package types

import (
	"errors"
	"fmt"
)

// ErrGenerationAborted reports user-initiated cancellation of a streaming
// generation. It is not a failure; callers must not surface it as one.
var ErrGenerationAborted = errors.New("generation aborted")

// SessionNotFoundError reports an unknown session identifier.
type SessionNotFoundError struct {
	ID SessionID
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// SectionNotFoundError reports an unknown section identifier within a session.
type SectionNotFoundError struct {
	SessionID SessionID
	ID        SectionID
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section not found: %s (session %s)", e.ID, e.SessionID)
}

// SuggestionNotFoundError reports an unknown suggestion identifier within a session.
type SuggestionNotFoundError struct {
	SessionID SessionID
	ID        SuggestionID
}

func (e *SuggestionNotFoundError) Error() string {
	return fmt.Sprintf("suggestion not found: %s (session %s)", e.ID, e.SessionID)
}

// ProjectNotFoundError reports an unknown project identifier.
type ProjectNotFoundError struct {
	ID ProjectID
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.ID)
}

// StateError reports caller misuse: an operation whose preconditions do not
// hold, such as reordering with a wrong identifier set or applying a
// suggestion that is no longer pending.
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// ModelUnreachableError reports a connectivity failure to the local
// generation endpoint. Retryable once the model server is back up.
type ModelUnreachableError struct {
	BaseURL string
	Err     error
}

func (e *ModelUnreachableError) Error() string {
	return fmt.Sprintf("model server unreachable at %s: %v", e.BaseURL, e.Err)
}

func (e *ModelUnreachableError) Unwrap() error {
	return e.Err
}

// ModelNotConfiguredError reports that the endpoint is reachable but the
// requested model is not installed there.
type ModelNotConfiguredError struct {
	Model string
}

func (e *ModelNotConfiguredError) Error() string {
	return fmt.Sprintf("model %q is not available on the local server (pull it first)", e.Model)
}

// ModelRequestError reports a generic transport, timeout, or protocol
// failure talking to the generation endpoint.
type ModelRequestError struct {
	Err error
}

func (e *ModelRequestError) Error() string {
	return fmt.Sprintf("model request failed: %v", e.Err)
}

func (e *ModelRequestError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is any of the entity-missing errors. The
// HTTP layer maps these to 404.
func IsNotFound(err error) bool {
	var (
		sess *SessionNotFoundError
		sect *SectionNotFoundError
		sugg *SuggestionNotFoundError
		proj *ProjectNotFoundError
	)
	return errors.As(err, &sess) || errors.As(err, &sect) ||
		errors.As(err, &sugg) || errors.As(err, &proj)
}

// IsModelError reports whether err is a model-interaction failure. The HTTP
// layer maps these to 503.
func IsModelError(err error) bool {
	var (
		unreachable *ModelUnreachableError
		notConf     *ModelNotConfiguredError
		request     *ModelRequestError
	)
	return errors.As(err, &unreachable) || errors.As(err, &notConf) ||
		errors.As(err, &request)
}
