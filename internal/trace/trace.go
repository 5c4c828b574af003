// Package trace implements an optional, off-by-default resolution
// tracer: one JSON line per subgoal expansion step, written to a
// rotating set of files.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MaxRotatedFiles bounds how many trace files accumulate in Dir before
// the oldest are removed.
const MaxRotatedFiles = 3

// Step is one subgoal expansion event within a single rule resolution.
type Step struct {
	Timestamp time.Time         `json:"ts"`
	Rule      string            `json:"rule"`
	Subgoal   int               `json:"subgoal"`
	Probe     map[string]string `json:"probe,omitempty"`
	Captures  []string          `json:"captures,omitempty"`
	Survivors int               `json:"survivors"`
}

// Recorder appends Steps to a rotating JSONL trace file.
type Recorder struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
	dir     string
}

// NewRecorder creates a recorder rooted at dir, rotating any existing
// trace files and opening a fresh one.
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, fmt.Errorf("trace: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("trace: create directory: %w", err)
	}

	r := &Recorder{dir: dir}
	if err := r.rotate(); err != nil {
		return nil, fmt.Errorf("trace: rotate: %w", err)
	}

	filename := fmt.Sprintf("resolve_%d.jsonl", time.Now().UnixNano())
	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: create file: %w", err)
	}

	r.file = f
	r.encoder = json.NewEncoder(f)
	return r, nil
}

// LogStep appends one subgoal expansion event.
func (r *Recorder) LogStep(rule string, subgoal int, probe map[string]string, captures []string, survivors int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.encoder == nil {
		return
	}

	step := Step{
		Timestamp: time.Now(),
		Rule:      rule,
		Subgoal:   subgoal,
		Probe:     probe,
		Captures:  captures,
		Survivors: survivors,
	}
	_ = r.encoder.Encode(step)
}

type traceFile struct {
	path    string
	modTime time.Time
}

// rotate trims dir down to MaxRotatedFiles-1 trace files, making room
// for the file NewRecorder is about to create, by repeatedly removing
// whichever .jsonl file is oldest.
func (r *Recorder) rotate() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return err
	}

	var files []traceFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, traceFile{filepath.Join(r.dir, e.Name()), info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	for len(files) >= MaxRotatedFiles {
		_ = os.Remove(files[0].path)
		files = files[1:]
	}
	return nil
}

// Close finishes the current trace file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.encoder = nil
	return err
}
