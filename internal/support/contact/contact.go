// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package contact stores messages sent through the public contact form.

The form client only understands the {"success", "message"} shape, so every
response from this package, including validation failures, uses it.
*/
package contact

import (
	"context"
	"time"
)

const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"

	NameMaxLength    = 100
	SubjectMaxLength = 200
	MessageMinLength = 10
	MessageMaxLength = 5000

	// MsgReceived is returned once a message is stored.
	MsgReceived = "Thank you for contacting us. We will get back to you soon"
)

// Message is one contact form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"message"`
	IPAddress string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists contact messages.
type Repository interface {
	Create(context context.Context, message *Message) error
}
