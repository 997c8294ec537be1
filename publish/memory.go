package publish

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepository is a Repository kept in memory, used for dry runs. Branches are created as
// copies of their base branch and revisions are the SHA-1 of the file content.
type MemoryRepository struct {
	mu       sync.Mutex
	branches map[string]map[string][]byte
}

// NewMemoryRepository returns a repository with the given branches, all empty.
func NewMemoryRepository(branches ...string) *MemoryRepository {
	r := &MemoryRepository{
		branches: map[string]map[string][]byte{},
	}
	for _, branch := range branches {
		r.branches[branch] = map[string][]byte{}
	}
	return r
}

func revision(content []byte) string {
	sum := sha1.Sum(content)
	return hex.EncodeToString(sum[:])
}

// GetFile returns whether path exists on branch and its revision.
func (r *MemoryRepository) GetFile(_ context.Context, path, branch string) (FileInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	files, ok := r.branches[branch]
	if !ok {
		return FileInfo{}, fmt.Errorf("unknown branch %s", branch)
	}
	content, ok := files[path]
	if !ok {
		return FileInfo{}, nil
	}
	return FileInfo{Exists: true, Revision: revision(content)}, nil
}

// PutFile creates or updates path on branch. Updating an existing file requires its revision.
func (r *MemoryRepository) PutFile(_ context.Context, path string, content []byte, branch, _, rev string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	files, ok := r.branches[branch]
	if !ok {
		return fmt.Errorf("unknown branch %s", branch)
	}
	if cur, ok := files[path]; ok && revision(cur) != rev {
		return fmt.Errorf("%s: revision mismatch", path)
	}
	files[path] = append([]byte{}, content...)
	return nil
}

// DeleteFile removes path from branch.
func (r *MemoryRepository) DeleteFile(_ context.Context, path, branch, rev, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	files, ok := r.branches[branch]
	if !ok {
		return fmt.Errorf("unknown branch %s", branch)
	}
	cur, ok := files[path]
	if !ok {
		return ErrNotFound
	} else if revision(cur) != rev {
		return fmt.Errorf("%s: revision mismatch", path)
	}
	delete(files, path)
	return nil
}

// CreateBranch copies branch from to name.
func (r *MemoryRepository) CreateBranch(_ context.Context, from, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.branches[name]; ok {
		return ErrBranchExists
	}
	base, ok := r.branches[from]
	if !ok {
		return fmt.Errorf("unknown branch %s", from)
	}
	files := make(map[string][]byte, len(base))
	for path, content := range base {
		files[path] = content
	}
	r.branches[name] = files
	return nil
}

// File returns the content of path on branch.
func (r *MemoryRepository) File(branch, path string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.branches[branch][path]
	return content, ok
}

// Files returns the sorted paths of all files on branch.
func (r *MemoryRepository) Files(branch string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := []string{}
	for path := range r.branches[branch] {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
