package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/config"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/service/commands"
	"github.com/taffyrocks/wg-nursery-system-sub000/pkg/clients/anthropic"
	client "github.com/taffyrocks/wg-nursery-system-sub000/pkg/clients/whatsapp"
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	translator anthropic.Client
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. translator may be nil,
// in which case only slash commands are understood.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, translator anthropic.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		translator: translator,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := extractMessageText(msg)
	if text == "" {
		return errors.New("empty message body")
	}

	text = s.translate(ctx, text)
	cmd := models.ParseCommand(text)
	cmd.MessageID = msg.ID

	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Any("args", cmd.Args))

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	switch {
	case errors.Is(err, models.ErrDuplicateSale):
		// Meta redelivered a message we already processed.
		s.logger.Info("skipping redelivered message", zap.String("message_id", msg.ID))
		return nil
	case errors.Is(err, commands.ErrUnsupportedCommand), errors.Is(err, commands.ErrInvalidArguments):
		reply = commands.HelpText
	case err != nil:
		reply = "Could not record that: " + err.Error()
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if msg.ID != "" {
		if err := s.client.MarkRead(ctxWithTimeout, msg.ID); err != nil {
			s.logger.Debug("failed to mark message read", zap.String("message_id", msg.ID), zap.Error(err))
		}
	}

	_, sendErr := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         msg.From,
		Body:       reply,
		PreviewURL: false,
	})
	return sendErr
}

// translate turns free text into a slash command when a translator is configured.
func (s *MetaWhatsAppService) translate(ctx context.Context, text string) string {
	if s.translator == nil || models.IsSlashCommand(text) {
		return text
	}
	cmd, err := s.translator.TranslateToCommand(ctx, text)
	if err != nil {
		s.logger.Warn("command translation failed", zap.Error(err))
		return text
	}
	if cmd == "" {
		return text
	}
	s.logger.Debug("translated free text", zap.String("input", text), zap.String("command", cmd))
	return cmd
}

// SendOutbound lets internal operators push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}

	return ""
}
