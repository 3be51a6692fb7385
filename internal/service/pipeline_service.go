package service

import (
	"context"
	"errors"
	"time"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/board"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/realtime"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
)

var ErrUnknownStage = errors.New("etapa de pipeline desconocida")

// PipelineService serves the Kanban board. It materializes the session set
// in a Board kept fresh by the change feed, and moves cards through the
// optimistic move helper.
type PipelineService struct {
	sessions repository.SessionRepository
	board    *board.Board
	feed     feedPublisher
}

func NewPipelineService(sessions repository.SessionRepository, b *board.Board, feed feedPublisher) *PipelineService {
	return &PipelineService{sessions: sessions, board: b, feed: feed}
}

// Warm loads the board from storage. Called at startup and safe to repeat.
func (s *PipelineService) Warm(ctx context.Context) error {
	all, err := s.sessions.ListSince(ctx, time.Time{})
	if err != nil {
		return err
	}
	s.board.Load(all)
	return nil
}

// Apply feeds one realtime event into the board.
func (s *PipelineService) Apply(ev realtime.Event) { s.board.Apply(ev) }

// Columns returns the board grouped by stage, restricted to sessions with
// activity in the last "days" days (0 = all).
func (s *PipelineService) Columns(days int) []board.Column {
	return s.board.Columns(board.Cutoff(days, time.Now()))
}

// Total reports how many sessions the board holds before filtering.
func (s *PipelineService) Total() int { return s.board.Len() }

// Move reassigns a session's stage: optimistic in-memory change first, then
// the durable write, rolled back in memory if that write fails. Returns the
// destination column label for the confirmation message.
func (s *PipelineService) Move(ctx context.Context, sessionID string, target model.PipelineStage) (string, error) {
	if !target.Valid() {
		return "", ErrUnknownStage
	}
	label, err := s.board.Move(ctx, sessionID, target, s.sessions.UpdateStage)
	if err != nil {
		return "", err
	}
	if s.feed != nil {
		if sess, err := s.sessions.GetByID(ctx, sessionID); err == nil {
			s.feed.Publish(ctx, realtime.Event{Type: realtime.EventUpdate, Record: sess})
		}
	}
	return label, nil
}
