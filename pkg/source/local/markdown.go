package local

import (
	"bufio"
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/source"
)

const markdownExt = ".md"

// Vault reads the Markdown layout.
type Vault struct {
	root   string
	ignore *ignore.GitIgnore
}

// NewVault opens the vault at root and compiles its top-level .gitignore.
func NewVault(root string) (*Vault, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "open vault")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeSource, "%s is not a directory", root)
	}
	gi, err := compileIgnore(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil, err
	}
	return &Vault{root: root, ignore: gi}, nil
}

// compileIgnore returns an empty matcher when path does not exist.
func compileIgnore(path string) (*ignore.GitIgnore, error) {
	gi, err := ignore.CompileIgnoreFile(path)
	if os.IsNotExist(err) {
		return ignore.CompileIgnoreLines(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "read %s", path)
	}
	return gi, nil
}

// Root returns the vault directory.
func (v *Vault) Root() string { return v.root }

// Groups returns the top-level directories of the vault, sorted by name.
// Hidden and ignored directories are not groups.
func (v *Vault) Groups(ctx context.Context) ([]source.Group, error) {
	entries, err := os.ReadDir(v.root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "list vault")
	}
	groups := []source.Group{}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || v.ignore.MatchesPath(name+"/") {
			continue
		}
		groups = append(groups, source.Group{ID: name, Title: name})
	}
	return groups, nil
}

// Documents walks the group directory in lexical order.
func (v *Vault) Documents(ctx context.Context, group string) (*source.Result, error) {
	if err := errors.ValidateGroupID(group); err != nil {
		return nil, err
	}
	dir := filepath.Join(v.root, group)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() || v.ignore.MatchesPath(group+"/") {
		return nil, errors.Wrap(errors.ErrCodeGroupNotFound, source.ErrGroupNotFound, "group %q", group)
	}
	local, err := compileIgnore(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil, err
	}

	res := &source.Result{Group: group, Documents: []graph.Document{}}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			res.Skipped++
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, _ := filepath.Rel(dir, path)
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		matchRel := rel
		if d.IsDir() {
			matchRel += "/"
		}
		if local.MatchesPath(matchRel) || v.ignore.MatchesPath(group+"/"+matchRel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != markdownExt {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			res.Skipped++
			return nil
		}
		id := strings.TrimSuffix(rel, markdownExt)
		res.Documents = append(res.Documents, graph.Document{
			ID:      id,
			Title:   markdownTitle(data, filepath.Base(id)),
			Content: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "walk group %s", group)
	}
	return res, nil
}

// markdownTitle returns the text of the first level-one ATX heading, or
// fallback when there is none. Headings inside fenced code are ignored.
func markdownTitle(data []byte, fallback string) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	inFence := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if title, ok := strings.CutPrefix(line, "# "); ok {
			if title = strings.TrimSpace(title); title != "" {
				return title
			}
		}
	}
	return fallback
}

// Close does nothing for the vault.
func (v *Vault) Close() error { return nil }

var _ source.Source = (*Vault)(nil)
