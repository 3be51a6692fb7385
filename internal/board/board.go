// Package board holds the in-memory pipeline board: every known chat
// session keyed by id, kept fresh by the realtime change feed and mutated
// optimistically by drag-and-drop moves. It replaces the ambient global
// store of the previous dashboard with an explicit object built at startup.
package board

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/realtime"
)

// PersistFunc commits a stage move to durable storage.
type PersistFunc func(ctx context.Context, sessionID string, stage model.PipelineStage) error

// Board is safe for concurrent use. Conflict policy is last writer wins: a
// feed update landing mid-move can be overwritten by the optimistic write.
type Board struct {
	mu    sync.RWMutex
	items map[string]*model.ChatSession
}

func New() *Board {
	return &Board{items: make(map[string]*model.ChatSession)}
}

// Load replaces the whole board, e.g. from the initial page query.
func (b *Board) Load(sessions []*model.ChatSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = make(map[string]*model.ChatSession, len(sessions))
	for _, s := range sessions {
		cp := *s
		b.items[s.ID] = &cp
	}
}

// Apply merges one change-feed event by primary key: insert if new, replace
// if known, remove on delete.
func (b *Board) Apply(ev realtime.Event) {
	if ev.Record == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	switch ev.Type {
	case realtime.EventInsert, realtime.EventUpdate:
		cp := *ev.Record
		b.items[cp.ID] = &cp
	case realtime.EventDelete:
		delete(b.items, ev.Record.ID)
	}
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Get returns a copy of one session, if present.
func (b *Board) Get(id string) (model.ChatSession, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.items[id]
	if !ok {
		return model.ChatSession{}, false
	}
	return *s, true
}

// Stage returns the current in-memory stage of a session.
func (b *Board) Stage(id string) (model.PipelineStage, bool) {
	s, ok := b.Get(id)
	if !ok {
		return "", false
	}
	return s.PipelineStage, true
}

// Move runs the optimistic move state machine for one session:
// pending(snapshot) → committed on persist success, rolled back to the
// snapshot on failure. The returned label names the destination column and
// is only meaningful on success.
func (b *Board) Move(ctx context.Context, sessionID string, target model.PipelineStage, persist PersistFunc) (string, error) {
	b.mu.Lock()
	s, ok := b.items[sessionID]
	if !ok {
		b.mu.Unlock()
		// Unknown locally; persist anyway, the feed will bring it in.
		if err := persist(ctx, sessionID, target); err != nil {
			return "", err
		}
		return target.Label(), nil
	}
	snapshot := s.PipelineStage
	s.PipelineStage = target
	b.mu.Unlock()

	if err := persist(ctx, sessionID, target); err != nil {
		b.mu.Lock()
		if cur, ok := b.items[sessionID]; ok {
			cur.PipelineStage = snapshot
		}
		b.mu.Unlock()
		return "", err
	}
	return target.Label(), nil
}

// Cutoff converts a recency filter in days to the earliest admissible
// activity time. Zero days means no cutoff.
func Cutoff(days int, now time.Time) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// Column is one Kanban column with its sessions, newest activity first.
type Column struct {
	Stage    model.PipelineStage `json:"stage"`
	Label    string              `json:"label"`
	Sessions []model.ChatSession `json:"sesiones"`
}

// Columns groups sessions at-or-after the cutoff into stage columns. The
// filter is pure view logic; the underlying set is untouched.
func (b *Board) Columns(cutoff time.Time) []Column {
	b.mu.RLock()
	defer b.mu.RUnlock()

	byStage := make(map[model.PipelineStage][]model.ChatSession, len(model.PipelineStages))
	for _, s := range b.items {
		if !cutoff.IsZero() && s.ActivityTime().Before(cutoff) {
			continue
		}
		stage := s.PipelineStage
		if !stage.Valid() {
			stage = model.StageExploring
		}
		byStage[stage] = append(byStage[stage], *s)
	}

	cols := make([]Column, 0, len(model.PipelineStages))
	for _, stage := range model.PipelineStages {
		sessions := byStage[stage]
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].ActivityTime().After(sessions[j].ActivityTime())
		})
		cols = append(cols, Column{Stage: stage, Label: stage.Label(), Sessions: sessions})
	}
	return cols
}
