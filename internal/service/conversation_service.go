package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/realtime"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
)

var (
	ErrEmptyMessage = errors.New("el mensaje no puede estar vacío")
	ErrNoAgent      = errors.New("se requiere un vendedor autenticado")
)

// ConversationFilter selects which sessions a staff member sees.
type ConversationFilter string

const (
	FilterAll     ConversationFilter = "todas"
	FilterMine    ConversationFilter = "mias"
	FilterHandoff ConversationFilter = "handoff"
	FilterBot     ConversationFilter = "bot"
)

// replySender is the slice of the gateway the conversation flow needs.
type replySender interface {
	SendReply(ctx context.Context, sessionID, message, userID string) error
}

// ConversationService backs the conversations screen: listing, takeover,
// return-to-bot, unread resets and staff replies.
type ConversationService struct {
	sessions repository.SessionRepository
	messages repository.MessageRepository
	sender   replySender
	feed     feedPublisher
}

func NewConversationService(sessions repository.SessionRepository, messages repository.MessageRepository, sender replySender, feed feedPublisher) *ConversationService {
	return &ConversationService{sessions: sessions, messages: messages, sender: sender, feed: feed}
}

// List returns sessions matching the filter and free-text search, most
// recent activity first. Handoffs sort before bot-handled sessions.
func (s *ConversationService) List(ctx context.Context, filter ConversationFilter, search, agentID string) ([]*model.ChatSession, error) {
	all, err := s.sessions.ListSince(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]*model.ChatSession, 0, len(all))
	for _, sess := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(sess.Phone), search) &&
			!strings.Contains(strings.ToLower(sess.CustomerName), search) &&
			!strings.Contains(strings.ToLower(sess.LastMessage), search) {
			continue
		}
		switch filter {
		case FilterMine:
			if sess.AssignedAgentID == nil || *sess.AssignedAgentID != agentID {
				continue
			}
		case FilterHandoff:
			if sess.HandledBy != model.HandledByAgent {
				continue
			}
		case FilterBot:
			if sess.HandledBy == model.HandledByAgent {
				continue
			}
		}
		out = append(out, sess)
	}

	// Stable: handoffs first, then unread, then recency (input is already
	// recency-ordered).
	handoffFirst := make([]*model.ChatSession, 0, len(out))
	for _, sess := range out {
		if sess.HandledBy == model.HandledByAgent {
			handoffFirst = append(handoffFirst, sess)
		}
	}
	for _, sess := range out {
		if sess.HandledBy != model.HandledByAgent {
			handoffFirst = append(handoffFirst, sess)
		}
	}
	return handoffFirst, nil
}

func (s *ConversationService) Get(ctx context.Context, id string) (*model.ChatSession, []*model.Message, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.messages.ListBySession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sess, msgs, nil
}

// Takeover assigns the conversation to the acting agent.
func (s *ConversationService) Takeover(ctx context.Context, sessionID, agentID string) error {
	if agentID == "" {
		return ErrNoAgent
	}
	if err := s.sessions.Takeover(ctx, sessionID, agentID); err != nil {
		return err
	}
	s.publishUpdate(ctx, sessionID)
	return nil
}

// ReturnToBot hands the conversation back to the automated flow. This is
// the only operation that clears assignment fields.
func (s *ConversationService) ReturnToBot(ctx context.Context, sessionID string) error {
	if err := s.sessions.ReturnToBot(ctx, sessionID); err != nil {
		return err
	}
	s.publishUpdate(ctx, sessionID)
	return nil
}

func (s *ConversationService) ResetUnread(ctx context.Context, sessionID string) error {
	return s.sessions.ResetUnread(ctx, sessionID)
}

// SendReply delivers a staff message through the WhatsApp collaborator.
// Unlike notifications this failure IS surfaced: the agent needs to know
// their message did not reach the customer.
func (s *ConversationService) SendReply(ctx context.Context, sessionID, message, agentID string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	if agentID == "" {
		return ErrNoAgent
	}
	return s.sender.SendReply(ctx, sessionID, message, agentID)
}

// SearchLead finds sessions by phone fragment for linking a manual sale.
// Everything but digits and + is stripped before matching.
func (s *ConversationService) SearchLead(ctx context.Context, phone string) ([]*model.ChatSession, error) {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	if normalized == "" {
		return []*model.ChatSession{}, nil
	}
	return s.sessions.SearchByPhone(ctx, normalized, 10)
}

func (s *ConversationService) publishUpdate(ctx context.Context, sessionID string) {
	if s.feed == nil {
		return
	}
	if sess, err := s.sessions.GetByID(ctx, sessionID); err == nil {
		s.feed.Publish(ctx, realtime.Event{Type: realtime.EventUpdate, Record: sess})
	}
}
