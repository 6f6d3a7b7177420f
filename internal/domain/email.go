package domain

import (
	"context"
	"fmt"
)

type Address struct {
	Name  string
	Email string
}

// String renders the address as `"Name" <email>`. Neither part is quoted or
// escaped.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf(`"%s" <%s>`, a.Name, a.Email)
}

// Email is one outbound HTML message.
type Email struct {
	From    Address
	To      Address
	ReplyTo *Address
	Subject string
	HTML    string
}

// Mailer delivers a single email through a mail relay.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}
