// Package loginflow models the three-screen login sequence a client walks
// through: email entry, password entry, one-time code entry. It only tracks
// which screen is active and which email is carried between screens; talking
// to the server and leaving the flow on success belong to the caller.
package loginflow

import (
	"errors"
	"fmt"
)

type State string

const (
	StateEmail    State = "email"
	StatePassword State = "password"
	StateOTP      State = "otp"
)

var ErrInvalidTransition = errors.New("invalid transition")

type Flow struct {
	state State
	email string
}

// New starts at the email screen.
func New() *Flow {
	return &Flow{state: StateEmail}
}

func (f *Flow) State() State {
	return f.state
}

// Email returns the address carried into the password and otp screens.
func (f *Flow) Email() string {
	return f.email
}

// ChoosePassword moves email -> password once the user picked password login.
func (f *Flow) ChoosePassword(email string) error {
	if f.state != StateEmail {
		return f.invalid("choose_password")
	}
	if email == "" {
		return ErrInvalidTransition
	}
	f.email = email
	f.state = StatePassword
	return nil
}

// OTPRequired moves password -> otp after the server signalled that a code
// was sent. The email entered earlier stays carried forward.
func (f *Flow) OTPRequired() error {
	if f.state != StatePassword {
		return f.invalid("otp_required")
	}
	f.state = StateOTP
	return nil
}

// Back moves password -> email, keeping the email in the input for editing.
func (f *Flow) Back() error {
	if f.state != StatePassword {
		return f.invalid("back")
	}
	f.state = StateEmail
	return nil
}

// Cancel moves otp -> email and drops the carried email.
func (f *Flow) Cancel() error {
	if f.state != StateOTP {
		return f.invalid("cancel")
	}
	f.email = ""
	f.state = StateEmail
	return nil
}

func (f *Flow) invalid(event string) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, event, f.state)
}
