package services

import (
	"context"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type ContactService struct {
	logger       *gecho.Logger
	store        storage.Storage
	emailService *EmailService
}

func NewContactService(logger *gecho.Logger, store storage.Storage, emailService *EmailService) *ContactService {
	return &ContactService{
		logger:       logger,
		store:        store,
		emailService: emailService,
	}
}

// Submit stores the message and notifies the shop in the background.
func (cs *ContactService) Submit(ctx context.Context, req *structs.ContactRequest) (*tables.ContactMessage, error) {
	msg := &tables.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   normalizeEmail(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  tables.ContactStatusUnread,
	}
	if err := cs.store.CreateContactMessage(ctx, msg); err != nil {
		cs.logger.Error("Failed to store contact message", gecho.Field("error", err))
		return nil, err
	}

	cs.emailService.Go("contact", func() error {
		return cs.emailService.SendContactNotification(msg)
	})
	return msg, nil
}

func (cs *ContactService) ListMessages(ctx context.Context) ([]*tables.ContactMessage, error) {
	messages, err := cs.store.ListContactMessages(ctx)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*tables.ContactMessage{}
	}
	return messages, nil
}

func (cs *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, status tables.ContactStatus) (*tables.ContactMessage, error) {
	return cs.store.UpdateContactMessageStatus(ctx, id, status)
}

func (cs *ContactService) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return cs.store.DeleteContactMessage(ctx, id)
}

// Settings returns the contact settings as a name to value map.
func (cs *ContactService) Settings(ctx context.Context) (map[string]string, error) {
	settings, err := cs.store.ListContactSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Name] = s.Value
	}
	return out, nil
}

func (cs *ContactService) SaveSettings(ctx context.Context, values map[string]string) (map[string]string, error) {
	for name, value := range values {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := cs.store.UpsertContactSetting(ctx, &tables.ContactSetting{Name: name, Value: strings.TrimSpace(value)}); err != nil {
			cs.logger.Error("Failed to save contact setting", gecho.Field("error", err), gecho.Field("name", name))
			return nil, err
		}
	}
	return cs.Settings(ctx)
}
