package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/util"
	"github.com/zeebo/xxh3"
)

type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonNotFound
	MissReasonError
	MissReasonInode
	MissReasonTruncated
	MissReasonFingerprint
)

func (r MissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonNotFound:
		return "not found"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "file replaced"
	case MissReasonTruncated:
		return "file truncated"
	case MissReasonFingerprint:
		return "content changed"
	default:
		return fmt.Sprintf("MissReason(%d)", int(r))
	}
}

// State is the persisted paging state of one (file, filter) pair, along with
// the identity of the file it was recorded against.
type State struct {
	FilePath           string      `json:"file_path"`
	Inode              uint64      `json:"inode"`
	FileSize           int64       `json:"file_size"`
	LastModified       int64       `json:"last_modified"`
	ContentFingerprint string      `json:"content_fingerprint"`
	FingerprintLength  int64       `json:"fingerprint_length"`
	SavedAt            time.Time   `json:"saved_at"`
	Page               *model.Page `json:"page"`
}

type Result struct {
	State      *State
	Found      bool
	MissReason MissReason
}

type Store interface {
	Get(filePath string, filter model.CategorySet) Result
	Set(filePath string, page *model.Page) error
	Delete(filePath string, filter model.CategorySet) error
	Clear() error
}

// PageStore keeps page state as one JSON file per (absolute path, filter)
// under baseDir, with an in-memory copy of every state read or written.
type PageStore struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*State
}

func NewPageStore(baseDir string) (*PageStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &PageStore{
		baseDir:     baseDir,
		memoryCache: make(map[string]*State),
	}, nil
}

// Key derives the state file name for a file path and filter.
func Key(filePath string, filter model.CategorySet) string {
	if abs, err := filepath.Abs(filePath); err == nil {
		filePath = abs
	}
	return fmt.Sprintf("%016x", xxh3.HashString(filePath+"\x00"+filter.String()))
}

func (s *PageStore) statePath(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

// Get returns the stored state if it still applies to the file on disk.
func (s *PageStore) Get(filePath string, filter model.CategorySet) Result {
	key := Key(filePath, filter)

	s.mu.Lock()
	defer s.mu.Unlock()

	if state, exists := s.memoryCache[key]; exists {
		if reason := validateState(state); reason == MissReasonNone {
			return Result{State: state.copy(), Found: true}
		}
		delete(s.memoryCache, key)
	}

	return s.getFromFile(key)
}

func (s *PageStore) getFromFile(key string) Result {
	data, err := os.ReadFile(s.statePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return Result{MissReason: MissReasonNotFound}
		}
		util.LogDebugf("Failed to read page state %s: %v", key, err)
		return Result{MissReason: MissReasonError}
	}

	var state State
	if err := sonic.Unmarshal(data, &state); err != nil || state.Page == nil {
		util.LogDebugf("Discarding unreadable page state %s: %v", key, err)
		return Result{MissReason: MissReasonError}
	}

	if reason := validateState(&state); reason != MissReasonNone {
		return Result{MissReason: reason}
	}

	s.memoryCache[key] = &state
	return Result{State: state.copy(), Found: true}
}

// copy returns a State whose Page can be modified without touching the
// in-memory cache.
func (st *State) copy() *State {
	c := *st
	c.Page = st.Page.Clone()
	return &c
}

// validateState checks that the stored offsets still describe the file: same
// inode, not shorter than when stored, and same leading bytes.
func validateState(state *State) MissReason {
	currentInfo, err := util.GetFileInfo(state.FilePath)
	if err != nil {
		util.LogDebugf("Page state for %s invalid: unable to get file info: %v", state.FilePath, err)
		return MissReasonError
	}

	if currentInfo.Replaced(state.Inode) {
		util.LogDebugf("Page state for %s invalid: inode changed (stored: %d, current: %d)",
			state.FilePath, state.Inode, currentInfo.Inode)
		return MissReasonInode
	}
	if currentInfo.Shrunk(state.FileSize) {
		util.LogDebugf("Page state for %s invalid: file shrank (stored: %d, current: %d)",
			state.FilePath, state.FileSize, currentInfo.Size)
		return MissReasonTruncated
	}

	if state.FingerprintLength == 0 {
		return MissReasonNone
	}
	fingerprint, err := util.CalculateFileFingerprint(state.FilePath, state.FingerprintLength)
	if err != nil {
		util.LogDebugf("Page state for %s invalid: unable to calculate fingerprint: %v", state.FilePath, err)
		return MissReasonError
	}
	if fingerprint != state.ContentFingerprint {
		util.LogDebugf("Page state for %s invalid: fingerprint mismatch (stored: %s, current: %s)",
			state.FilePath, state.ContentFingerprint, fingerprint)
		return MissReasonFingerprint
	}
	return MissReasonNone
}

// Set stores page for filePath under the page's filter.
func (s *PageStore) Set(filePath string, page *model.Page) error {
	if page == nil {
		return fmt.Errorf("cannot store a nil page")
	}
	if abs, err := filepath.Abs(filePath); err == nil {
		filePath = abs
	}

	fileInfo, err := util.GetFileInfo(filePath)
	if err != nil {
		return err
	}

	length := min(fileInfo.Size, util.FingerprintSize)
	fingerprint, err := util.CalculateFileFingerprint(filePath, length)
	if err != nil {
		return fmt.Errorf("failed to fingerprint %s: %w", filePath, err)
	}

	state := &State{
		FilePath:           filePath,
		Inode:              fileInfo.Inode,
		FileSize:           fileInfo.Size,
		LastModified:       fileInfo.ModTime,
		ContentFingerprint: fingerprint,
		FingerprintLength:  length,
		SavedAt:            util.GetTimeProvider().Now(),
		Page:               page.Clone(),
	}

	data, err := sonic.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal page state: %w", err)
	}

	key := Key(filePath, page.Filter)

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.statePath(key)
	tmpFile := target + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write page state: %w", err)
	}
	if err := os.Rename(tmpFile, target); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename page state: %w", err)
	}

	s.memoryCache[key] = state
	util.LogDebugf("Saved page state for %s (filter %s) to %s", filePath, page.Filter, target)
	return nil
}

// Delete removes the state for filePath and filter. Missing state is not an error.
func (s *PageStore) Delete(filePath string, filter model.CategorySet) error {
	key := Key(filePath, filter)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.memoryCache, key)
	if err := os.Remove(s.statePath(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every stored state.
func (s *PageStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memoryCache = make(map[string]*State)

	return filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			return os.Remove(path)
		}
		return nil
	})
}

// Count returns the number of in-memory and on-disk states.
func (s *PageStore) Count() (memoryCount, fileCount int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memoryCount = len(s.memoryCache)
	filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			fileCount++
		}
		return nil
	})
	return memoryCount, fileCount
}
