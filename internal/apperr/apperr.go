// Package apperr defines the error taxonomy shared by the client's core
// components. Every error a user can see carries a Kind and a short
// human-readable message; the wrapped cause is for the developer log only.
package apperr

import (
	"context"
	"errors"
	"fmt"

	"github.com/unibot/cli/internal/api"
)

// Kind classifies a failure by how the user can recover from it.
type Kind int

const (
	// KindUnknown is never produced by Classify for a non-nil error.
	KindUnknown Kind = iota
	// KindValidation: a required field or the keyword set is empty. Never
	// reaches the network.
	KindValidation
	// KindAuthentication: the server rejected the credentials.
	KindAuthentication
	// KindConnectivity: the request never reached or never returned from
	// the server, including timeouts.
	KindConnectivity
	// KindServer: the server answered a read with a non-success status.
	KindServer
	// KindServerMutation: the server answered create/update/delete with a
	// non-success status.
	KindServerMutation
	// KindBusy: the same command is already in flight.
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindConnectivity:
		return "connectivity"
	case KindServer:
		return "server"
	case KindServerMutation:
		return "server_mutation"
	case KindBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// MsgConnectivity is the user-facing text for every connectivity failure.
const MsgConnectivity = "Failed to connect to server"

// Error is a classified failure.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	default:
		return e.Msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error without a cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap builds an error around cause.
func Wrap(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}

// Validation is shorthand for a KindValidation error.
func Validation(op, msg string) *Error {
	return New(KindValidation, op, msg)
}

// Busy is shorthand for a KindBusy error.
func Busy(op string) *Error {
	return New(KindBusy, op, "already in progress")
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the text to show next to the triggering control.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Something went wrong"
}

// Classify maps a client error onto the taxonomy. statusKind and msg apply
// only when the server answered (a non-success status or an undecodable
// body). Anything else means no usable exchange took place and is
// Connectivity.
func Classify(op string, err error, statusKind Kind, msg string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if api.Answered(err) && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return Wrap(statusKind, op, msg, err)
	}
	return Wrap(KindConnectivity, op, MsgConnectivity, err)
}
