package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation will be returned if a submission is missing a required field
	ErrValidation = errors.New("all fields are required")
	// ErrMailDelivery will be returned if the mail relay fails to accept a message
	ErrMailDelivery = errors.New("mail delivery failed")
)

type MailKind string

const (
	NotificationMail MailKind = "notification"
	AutoReplyMail    MailKind = "autoreply"
)

// MailDeliveryError records which of the two contact emails failed.
type MailDeliveryError struct {
	Kind MailKind
	Err  error
}

func (e *MailDeliveryError) Error() string {
	return fmt.Sprintf("sending %s email: %v", e.Kind, e.Err)
}

func (e *MailDeliveryError) Unwrap() error {
	return e.Err
}

func (e *MailDeliveryError) Is(target error) bool {
	return target == ErrMailDelivery
}
