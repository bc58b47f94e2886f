// Package feedback stores reports of misinterpreted utterances. Reports are
// append-only JSON lines in a local file; each carries the transcript, the
// session context it was spoken in, what the engine made of it and what the
// user expected, so it can be replayed later as a regression case.
package feedback

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ErrEmptyTranscript is returned by [FileStore.Save] for a record without a
// transcript.
var ErrEmptyTranscript = errors.New("feedback: transcript must not be empty")

// Record is a single feedback entry written to the file store.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`

	Transcript string `json:"transcript"`

	// Mode and CurrentExercise describe the session when the utterance was
	// spoken.
	Mode            string `json:"mode,omitempty"`
	CurrentExercise string `json:"current_exercise,omitempty"`

	// Outcome, Exercise and Reasons are what the engine produced.
	Outcome  string   `json:"outcome"`
	Exercise string   `json:"exercise,omitempty"`
	Reasons  []string `json:"reasons,omitempty"`

	// Expected is the exercise the user meant, if they said.
	Expected string `json:"expected,omitempty"`
	Comments string `json:"comments,omitempty"`
}

// FileStore persists feedback as JSON lines in a local file.
// Thread-safe for concurrent use.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileStore creates a FileStore that writes to the given path.
// The file is created on the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the backing file.
func (fs *FileStore) Path() string { return fs.path }

// Save appends rec to the file. A zero timestamp is set to now.
func (fs *FileStore) Save(rec Record) (Record, error) {
	if strings.TrimSpace(rec.Transcript) == "" {
		return Record{}, ErrEmptyTranscript
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = fs.now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("feedback: marshal: %w", err)
	}
	data = append(data, '\n')

	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.OpenFile(fs.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Record{}, fmt.Errorf("feedback: open file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return Record{}, fmt.Errorf("feedback: write: %w", err)
	}
	return rec, nil
}

// Records reads every record saved so far. A missing file yields none.
func (fs *FileStore) Records() ([]Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.Open(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("feedback: open file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes JSON-lines records from r. Blank lines are skipped; a
// malformed line is reported with its line number.
func Read(r io.Reader) ([]Record, error) {
	out := []Record{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("feedback: line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("feedback: read: %w", err)
	}
	return out, nil
}
