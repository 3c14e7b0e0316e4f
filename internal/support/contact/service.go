// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/cadenza/internal/platform/ctxutil"
	"github.com/taibuivan/cadenza/pkg/uuid"
)

// Service records contact messages.
type Service struct {
	repository Repository
}

// NewService constructs a contact [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// SubmitInput is a validated contact form.
type SubmitInput struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	IPAddress string
}

// Submit stores the message. Delivery to staff happens outside the API.
func (service *Service) Submit(context context.Context, input SubmitInput) (*Message, error) {
	message := &Message{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Subject:   strings.TrimSpace(input.Subject),
		Body:      strings.TrimSpace(input.Message),
		IPAddress: input.IPAddress,
	}

	if err := service.repository.Create(context, message); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "contact_message_received", slog.String("message_id", message.ID))
	return message, nil
}
