package local

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/source"
)

var noteIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// noteFile is the on-disk note record. Only the fields the graph needs are
// decoded; metadata is ignored.
type noteFile struct {
	ID        string    `json:"id" validate:"required,noteid"`
	GroupID   string    `json:"groupId"`
	Title     string    `json:"title" validate:"max=1024"`
	Content   string    `json:"content"`
	Type      string    `json:"type" validate:"omitempty,oneof=markdown rich"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("noteid", func(fl validator.FieldLevel) bool {
		return noteIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// Store reads the JSON note layout.
type Store struct {
	root     string
	validate *validator.Validate
}

// NewStore opens the storage directory at root. The directory must exist.
func NewStore(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "open storage root")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeSource, "%s is not a directory", root)
	}
	return &Store{root: root, validate: newValidator()}, nil
}

// Root returns the storage directory.
func (s *Store) Root() string { return s.root }

func (s *Store) groupsDir() string { return filepath.Join(s.root, "groups") }

// NotesDir returns the directory holding a group's note files.
func (s *Store) NotesDir(group string) string {
	return filepath.Join(s.groupsDir(), group, "notes")
}

// Groups returns the groups listed in groups.json, in file order. Without a
// groups.json every directory under groups/ is a group, sorted by name.
func (s *Store) Groups(ctx context.Context) ([]source.Group, error) {
	data, err := os.ReadFile(filepath.Join(s.root, "groups.json"))
	switch {
	case err == nil:
		var groups []source.Group
		if err := json.Unmarshal(data, &groups); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSource, err, "parse groups.json")
		}
		return groups, nil
	case !os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeSource, err, "read groups.json")
	}

	entries, err := os.ReadDir(s.groupsDir())
	if os.IsNotExist(err) {
		return []source.Group{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "list groups")
	}
	groups := make([]source.Group, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			groups = append(groups, source.Group{ID: e.Name()})
		}
	}
	return groups, nil
}

// Documents reads every note of group, most recently updated first; ties
// keep file name order. Unreadable, malformed and invalid files are skipped.
func (s *Store) Documents(ctx context.Context, group string) (*source.Result, error) {
	if err := errors.ValidateGroupID(group); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(s.groupsDir(), group)); os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeGroupNotFound, source.ErrGroupNotFound, "group %q", group)
	}

	dir := s.NotesDir(group)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return &source.Result{Group: group, Documents: []graph.Document{}}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "list notes of %s", group)
	}

	res := &source.Result{Group: group}
	notes := make([]noteFile, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		n, ok := s.readNote(filepath.Join(dir, e.Name()))
		if !ok {
			res.Skipped++
			continue
		}
		notes = append(notes, n)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	res.Documents = make([]graph.Document, len(notes))
	for i, n := range notes {
		res.Documents[i] = graph.Document{ID: n.ID, Title: n.Title, Content: n.Content}
	}
	return res, nil
}

func (s *Store) readNote(path string) (noteFile, bool) {
	var n noteFile
	data, err := os.ReadFile(path)
	if err != nil {
		return n, false
	}
	if err := json.Unmarshal(data, &n); err != nil {
		return n, false
	}
	if err := s.validate.Struct(n); err != nil {
		return n, false
	}
	return n, true
}

// Close does nothing for the local store.
func (s *Store) Close() error { return nil }

var _ source.Source = (*Store)(nil)
