package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tracescribe/internal/action"
	"tracescribe/internal/pipeline"
)

const (
	storeEnvVar = "TRACESCRIBE_SESSION_DIR"
	storeSubdir = "tracescribe/sessions"
)

// Session is one recorded task capture plus, once generated, its documentation
// result. The result is replaced wholesale on regeneration, never patched.
type Session struct {
	ID        string           `json:"id"`
	Title     string           `json:"title,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Actions   []action.Action  `json:"actions"`
	Result    *pipeline.Result `json:"result,omitempty"`
}

// Store persists sessions as one JSON file per opaque session id.
type Store struct {
	dir string
}

// NewStore opens (and creates if needed) the session directory. An empty dir falls
// back to TRACESCRIBE_SESSION_DIR, then the user cache directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = os.Getenv(storeEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "tracescribe-cache")
		}
		dir = filepath.Join(base, storeSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Create stores a new session for a finished capture under a fresh id.
func (s *Store) Create(title string, actions []action.Action) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		CreatedAt: now,
		UpdatedAt: now,
		Actions:   actions,
	}
	if err := s.write(sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Get loads a session by id.
func (s *Store) Get(id string) (Session, error) {
	data, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, fmt.Errorf("session %s not found", id)
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return sess, nil
}

// Put stores a session wholesale, stamping UpdatedAt.
func (s *Store) Put(sess Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	sess.UpdatedAt = time.Now().UTC()
	return s.write(sess)
}

// AttachResult replaces a session's generation result. Regeneration swaps the whole
// result; there is no field-level patching.
func (s *Store) AttachResult(id string, result pipeline.Result) (Session, error) {
	sess, err := s.Get(id)
	if err != nil {
		return Session{}, err
	}
	sess.Result = &result
	if err := s.Put(sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// List returns the stored session ids, most recently updated first.
func (s *Store) List() ([]Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	sessions := []Session{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		sess, err := s.Get(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// A corrupt file should not hide the rest of the store.
			continue
		}
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

func (s *Store) write(sess Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.pathFor(sess.ID), data, 0o644)
}

func (s *Store) pathFor(id string) string {
	return filepath.Join(s.dir, sanitizeID(id)+".json")
}

// Session ids are opaque caller-supplied strings; keep them filesystem-safe.
func sanitizeID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.ReplaceAll(id, "/", "-")
	id = strings.ReplaceAll(id, ":", "-")
	id = strings.ReplaceAll(id, "..", "-")
	return id
}
