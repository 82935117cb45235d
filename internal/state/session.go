package state

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// User-facing notification messages.
const (
	MsgSaved       = "Resume saved successfully!"
	MsgSaveFailed  = "Error saving resume. Please try again."
	MsgLoadFailed  = "Error loading saved data. Starting with an empty resume."
	MsgClearFailed = "Error clearing saved data. Please try again."
	MsgNoResume    = "There is no resume to save yet."
)

// ErrNoResume is returned by Save when no resume is selected.
var ErrNoResume = errors.New("no resume selected")

// Level is the severity of a notification.
type Level int

// Notification levels.
const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notifier shows blocking messages to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

// Notify calls f.
func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}

// Session owns the state of one user session and its persisted record.
type Session struct {
	mu       sync.Mutex
	state    State
	store    storage.Store
	key      string
	notifier Notifier
	logger   *zap.Logger
	reducer  Reducer
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithNotifier sets where user-facing messages go.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithClock sets the clock used to stamp updates.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.reducer.Now = now }
}

// WithKey overrides the record key (storage.ResumeKey by default).
func WithKey(key string) Option {
	return func(s *Session) { s.key = key }
}

// NewSession returns a session in the initial state backed by store.
func NewSession(store storage.Store, opts ...Option) *Session {
	s := &Session{
		state:    Initial(),
		store:    store,
		key:      storage.ResumeKey,
		notifier: NotifierFunc(func(Level, string) {}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies a to the session state. Validation failures leave the
// state unchanged and are returned as *validation.FormError.
func (s *Session) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.reducer.Reduce(s.state, a)
	if err != nil {
		s.logger.Debug("action rejected", zap.String("action", actionName(a)), zap.Error(err))
		return s.state.Clone(), err
	}
	s.state = next
	s.logger.Debug("action applied", zap.String("action", actionName(a)))
	return s.state.Clone(), nil
}

// noTemplateID marks a record saved with no template selected. An empty
// templateId means the record predates template selection and loads with
// templates.Default.
const noTemplateID = "none"

// record is the persisted form of the state: the resume with the selected
// template in its templateId field.
func record(st State) ([]byte, error) {
	r := st.Resume.Clone()
	r.TemplateID = st.SelectedTemplate.String()
	if !st.SelectedTemplate.Valid() {
		r.TemplateID = noTemplateID
	}
	return json.Marshal(r)
}

// Save writes the current state to the store.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Resume == nil {
		s.notifier.Notify(LevelError, MsgNoResume)
		return &Error{Op: "save", Message: "nothing to save", Cause: ErrNoResume}
	}

	data, err := record(s.state)
	if err != nil {
		return s.failSave(&Error{Op: "save", Message: "failed to serialize resume", Cause: err})
	}
	if err := s.store.Put(ctx, s.key, string(data)); err != nil {
		return s.failSave(&Error{Op: "save", Message: "failed to write record", Cause: err})
	}

	s.logger.Info("resume saved", zap.String("key", s.key), zap.String("resume_id", s.state.Resume.ID), zap.Int("bytes", len(data)))
	s.notifier.Notify(LevelInfo, MsgSaved)
	return nil
}

func (s *Session) failSave(err error) error {
	s.logger.Error("failed to save resume", zap.String("key", s.key), zap.Error(err))
	s.notifier.Notify(LevelError, MsgSaveFailed)
	return err
}

// Load replaces the state with the saved record. With no saved record the
// session keeps its empty default state. A record that cannot be read or
// decoded is reported and the in-memory state is left untouched.
func (s *Session) Load(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := s.store.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("no saved resume", zap.String("key", s.key))
		return s.state.Clone(), nil
	}
	if err != nil {
		return s.state.Clone(), s.failLoad(&Error{Op: "load", Message: "failed to read record", Cause: err})
	}

	loaded, err := decodeRecord([]byte(value))
	if err != nil {
		return s.state.Clone(), s.failLoad(err)
	}

	s.state = loaded
	s.logger.Info("resume loaded", zap.String("key", s.key), zap.String("resume_id", loaded.Resume.ID))
	return s.state.Clone(), nil
}

func (s *Session) failLoad(err error) error {
	s.logger.Error("failed to load resume", zap.String("key", s.key), zap.Error(err))
	s.notifier.Notify(LevelError, MsgLoadFailed)
	return err
}

// decodeRecord checks a record against the resume schema and decodes it.
func decodeRecord(data []byte) (State, error) {
	if err := schemas.ValidateResumeJSON(data); err != nil {
		return State{}, &Error{Op: "load", Message: "saved record does not match the resume schema", Cause: err}
	}
	var r types.Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return State{}, &Error{Op: "load", Message: "failed to decode record", Cause: err}
	}
	r.Normalize()

	selected := templates.Default
	switch r.TemplateID {
	case "":
	case noTemplateID:
		selected = templates.KindNone
		r.TemplateID = ""
	default:
		selected, _ = templates.Parse(r.TemplateID)
	}
	return State{Resume: &r, SelectedTemplate: selected}, nil
}

// Clear removes the saved record and resets to the empty default state.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, s.key); err != nil {
		err = &Error{Op: "clear", Message: "failed to remove record", Cause: err}
		s.logger.Error("failed to clear resume", zap.String("key", s.key), zap.Error(err))
		s.notifier.Notify(LevelError, MsgClearFailed)
		return err
	}
	s.state = Initial()
	s.logger.Info("resume cleared", zap.String("key", s.key))
	return nil
}

func actionName(a Action) string {
	switch a.(type) {
	case CreateResume:
		return "create_resume"
	case SetResume:
		return "set_resume"
	case SetPersonalInfo:
		return "set_personal_info"
	case SetExperience:
		return "set_experience"
	case SetEducation:
		return "set_education"
	case SetSkills:
		return "set_skills"
	case SetProjects:
		return "set_projects"
	case SetExtras:
		return "set_extras"
	case SelectTemplate:
		return "select_template"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}
