package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Errze/note-bad-ideas/pkg/errors"
)

const sessionExt = ".session.json"

// FileStore keeps one JSON file per session in a directory. Writes go
// through a temp file and a rename so a crash never leaves half a session.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore opens (and creates) dir. An empty dir means
// ~/.config/notegraph/sessions.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate session directory")
		}
		dir = filepath.Join(home, ".config", "notegraph", "sessions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "create session directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir is where session files live.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) pathFor(id string) string {
	return filepath.Join(s.dir, id+sessionExt)
}

// load reads and decodes one session file. ok is false when the file is
// missing or unreadable as a session.
func load(path string) (sess *Session, ok bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeSource, err, "read session")
	}
	sess = new(Session)
	if json.Unmarshal(data, sess) != nil {
		return nil, false, nil
	}
	return sess, true, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	if ValidateID(id) != nil {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(id)
	sess, ok, err := load(path)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		return nil, ErrNotFound
	case sess.IsExpired():
		_ = os.Remove(path)
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	if err := ValidateID(sess.ID); err != nil {
		return err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSource, err, "write session")
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmp.Name(), s.pathFor(sess.ID))
	}
	if werr != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeSource, werr, "write session")
	}
	return nil
}

// Delete removes id. Unknown ids are not an error.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if ValidateID(id) != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeSource, err, "delete session")
	}
	return nil
}

// Cleanup removes expired and undecodable session files.
func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSource, err, "list sessions")
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), sessionExt) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		sess, ok, err := load(path)
		if err != nil {
			continue
		}
		if !ok || sess.IsExpired() {
			_ = os.Remove(path)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
