package app

import (
	"sort"
	"sync"
	"time"

	"scrub/domain/core"
	"scrub/domain/report"
	"scrub/domain/table"
	"scrub/ports"
)

// Session holds one loaded dataset together with its latest analysis.
// Every cleaning operation re-profiles the table so the report and
// suggestions never lag behind the data. Callers always receive a
// snapshot copy taken under the service lock; the table, report, and
// suggestion values a snapshot points at are never mutated after
// publication (Apply swaps in freshly built ones), so a snapshot stays
// consistent while a concurrent Apply advances the stored session.
type Session struct {
	ID          core.SessionID
	Name        string
	Table       *table.Table
	Report      *report.Report
	Suggestions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Applied     []ports.CleaningRequest
}

// SessionService orchestrates the analyze/clean cycle over in-memory
// sessions.
type SessionService struct {
	mu        sync.RWMutex
	sessions  map[core.SessionID]*Session
	generator ports.ReportGenerator
	engine    ports.SuggestionEngine
	cleaner   ports.TableCleaner
}

// NewSessionService creates a session service
func NewSessionService(generator ports.ReportGenerator, engine ports.SuggestionEngine, cleaner ports.TableCleaner) *SessionService {
	return &SessionService{
		sessions:  make(map[core.SessionID]*Session),
		generator: generator,
		engine:    engine,
		cleaner:   cleaner,
	}
}

// Create registers a new session for the given table and runs the
// initial analysis.
func (s *SessionService) Create(name string, tbl *table.Table) (*Session, error) {
	if tbl == nil || tbl.IsEmpty() {
		return nil, core.ErrEmptyTable
	}

	sess := &Session{
		ID:        core.NewSessionID(),
		Name:      name,
		Table:     tbl,
		CreatedAt: time.Now(),
	}
	sess.UpdatedAt = sess.CreatedAt

	if err := s.analyze(sess); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	snap := sess.snapshot()
	s.mu.Unlock()
	return snap, nil
}

// Get returns a snapshot of the session with the given ID.
func (s *SessionService) Get(id core.SessionID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, core.NewSessionNotFoundError(id)
	}
	return sess.snapshot(), nil
}

// List returns snapshots of all sessions, newest first.
func (s *SessionService) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// snapshot copies the session record. The caller must hold the service
// lock. The copy shares the (immutable after publication) table, report,
// and suggestion values but owns its Applied history, so a later Apply
// on the stored session never touches memory a snapshot reads.
func (sess *Session) snapshot() *Session {
	snap := *sess
	snap.Applied = append([]ports.CleaningRequest(nil), sess.Applied...)
	return &snap
}

// Apply runs a cleaning operation against the session's table and
// re-analyzes the result. The session is only mutated when both the
// cleaning step and the re-analysis succeed.
func (s *SessionService) Apply(id core.SessionID, req ports.CleaningRequest) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, core.NewSessionNotFoundError(id)
	}

	cleaned, err := s.cleaner.Apply(sess.Table, req)
	if err != nil {
		return nil, err
	}

	rep := s.generator.GenerateReport(cleaned)
	suggestions, err := s.engine.GenerateSuggestions(rep)
	if err != nil {
		return nil, err
	}

	sess.Table = cleaned
	sess.Report = rep
	sess.Suggestions = suggestions
	sess.Applied = append(sess.Applied, req)
	sess.UpdatedAt = time.Now()
	return sess.snapshot(), nil
}

func (s *SessionService) analyze(sess *Session) error {
	rep := s.generator.GenerateReport(sess.Table)
	suggestions, err := s.engine.GenerateSuggestions(rep)
	if err != nil {
		return err
	}
	sess.Report = rep
	sess.Suggestions = suggestions
	return nil
}
