package app

import (
	"context"
	"time"

	"cutoffrank/domain/core"
	"cutoffrank/domain/cutoff"
	"cutoffrank/domain/selection"
	"cutoffrank/internal"
	"cutoffrank/internal/errors"
	"cutoffrank/ports"
)

// SessionView is a snapshot of a session for presentation
type SessionView struct {
	ID    core.SessionID  `json:"id"`
	State selection.State `json:"state"`
	Count int             `json:"count"`
}

// Export is a rendered download
type Export struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SelectionService binds one loaded dataset to the live sessions. It only
// exists once the dataset loaded, so no session action can run without one.
type SelectionService struct {
	dataset *cutoff.Dataset
	store   ports.SessionStore
	now     func() time.Time
}

// NewSelectionService loads the dataset and returns the service, or the
// load error and no service
func NewSelectionService(ctx context.Context, loader ports.DatasetLoader, store ports.SessionStore) (*SelectionService, error) {
	ds, err := loader.LoadDataset(ctx)
	if err != nil {
		if errors.Classify(err) != errors.CodeLoadError {
			err = errors.WithCode(errors.CodeLoadError, err)
		}
		return nil, err
	}
	return NewSelectionServiceWithDataset(ds, store), nil
}

// NewSelectionServiceWithDataset wraps an already loaded dataset
func NewSelectionServiceWithDataset(ds *cutoff.Dataset, store ports.SessionStore) *SelectionService {
	return &SelectionService{dataset: ds, store: store, now: time.Now}
}

// Dataset returns the shared read-only dataset
func (s *SelectionService) Dataset() *cutoff.Dataset {
	return s.dataset
}

// Categories returns the selectable categories
func (s *SelectionService) Categories() []string {
	return s.dataset.Categories()
}

// Colleges returns the selectable colleges
func (s *SelectionService) Colleges() []string {
	return s.dataset.Colleges()
}

// Branches returns the branches valid for college
func (s *SelectionService) Branches(college string) []string {
	return s.dataset.Branches(college)
}

// Lookup returns a single cutoff without touching any session
func (s *SelectionService) Lookup(picks selection.Picks) (selection.Entry, error) {
	rank, err := s.dataset.Cutoff(picks.Category, picks.College, picks.Branch)
	if err != nil {
		return selection.Entry{}, err
	}
	return selection.Entry{College: picks.College, Branch: picks.Branch, Cutoff: rank}, nil
}

// Summary describes the ranks of one category
func (s *SelectionService) Summary(category string) (cutoff.Summary, error) {
	return s.dataset.Summary(category)
}

// NewSession creates an idle session
func (s *SelectionService) NewSession(ctx context.Context) (SessionView, error) {
	sess, err := s.store.Create(ctx)
	if err != nil {
		return SessionView{}, errors.Wrap(err, "failed to create session")
	}
	return view(sess), nil
}

// EnsureSession returns the session named by rawID, or a new idle session
// when rawID is empty, malformed or expired
func (s *SelectionService) EnsureSession(ctx context.Context, rawID string) (SessionView, error) {
	if id, err := core.ParseSessionID(rawID); err == nil {
		if v, err := s.Status(ctx, id); err == nil {
			return v, nil
		}
	}
	return s.NewSession(ctx)
}

// Status returns a snapshot of a session
func (s *SelectionService) Status(ctx context.Context, id core.SessionID) (SessionView, error) {
	var v SessionView
	err := s.store.With(ctx, id, func(sess *selection.Session) error {
		v = view(sess)
		return nil
	})
	return v, err
}

// Start enters Selecting
func (s *SelectionService) Start(ctx context.Context, id core.SessionID) (SessionView, error) {
	var v SessionView
	err := s.store.With(ctx, id, func(sess *selection.Session) error {
		sess.Start(s.now())
		v = view(sess)
		return nil
	})
	return v, err
}

// Add appends the cutoff for picks to the session list
func (s *SelectionService) Add(ctx context.Context, id core.SessionID, picks selection.Picks) (selection.Entry, error) {
	var entry selection.Entry
	err := s.store.With(ctx, id, func(sess *selection.Session) error {
		var err error
		entry, err = sess.Add(s.dataset, picks)
		return err
	})
	if err != nil {
		internal.DefaultLogger.Debug("[SelectionService] Add to %s rejected: %v", id, err)
		return selection.Entry{}, err
	}
	internal.DefaultLogger.WithField("session", id.String()).Debugf("added %s / %s at %s", entry.College, entry.Branch, entry.Cutoff)
	return entry, nil
}

// Show returns the rank-sorted list
func (s *SelectionService) Show(ctx context.Context, id core.SessionID) ([]selection.Entry, error) {
	var entries []selection.Entry
	err := s.store.With(ctx, id, func(sess *selection.Session) error {
		var err error
		entries, err = sess.Show()
		return err
	})
	return entries, err
}

// Export renders the rank-sorted list as a dated CSV download
func (s *SelectionService) Export(ctx context.Context, id core.SessionID) (Export, error) {
	var content []byte
	err := s.store.With(ctx, id, func(sess *selection.Session) error {
		var err error
		content, err = sess.Export()
		return err
	})
	if err != nil {
		return Export{}, err
	}
	return Export{
		Filename:    selection.ExportFilename(s.now()),
		ContentType: selection.ContentType,
		Content:     content,
	}, nil
}

// End clears the list and returns the session to Idle
func (s *SelectionService) End(ctx context.Context, id core.SessionID) (SessionView, error) {
	var v SessionView
	err := s.store.With(ctx, id, func(sess *selection.Session) error {
		sess.End()
		v = view(sess)
		return nil
	})
	if err == nil {
		internal.DefaultLogger.Debug("[SelectionService] Session %s ended", id)
	}
	return v, err
}

// Discard removes the session altogether
func (s *SelectionService) Discard(ctx context.Context, id core.SessionID) error {
	return s.store.Delete(ctx, id)
}

func view(sess *selection.Session) SessionView {
	return SessionView{ID: sess.ID, State: sess.State(), Count: sess.Len()}
}
