package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/RevCBH/nibbl/internal/validate"
)

// Store owns the history log for one run. There is exactly one writer, so
// the store does no locking.
type Store struct {
	path string
	log  Log
	last time.Time

	// unreadable holds entries that did not decode as records. They are
	// written back unchanged on every flush.
	unreadable []json.RawMessage
}

// Open loads the history log at path.
// A missing file yields an empty log, and so does a malformed one. An entry
// that cannot be read as a record is skipped but kept on disk. Any other
// read failure is returned.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path, log: Log{Reviews: []ReviewRecord{}}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Debug("No review history yet, starting empty")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var doc struct {
		Reviews []json.RawMessage `json:"reviews"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		log.WithField("path", path).WithError(err).Debug("Review history is malformed, starting empty")
		return s, nil
	}

	for i, entry := range doc.Reviews {
		var rec ReviewRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			log.WithFields(log.Fields{
				"path":  path,
				"index": i,
			}).WithError(err).Warn("Skipping unreadable history entry")
			s.unreadable = append(s.unreadable, entry)
			continue
		}
		s.log.Reviews = append(s.log.Reviews, rec)
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of records in the log.
func (s *Store) Len() int {
	return len(s.log.Reviews)
}

// Log returns a snapshot of the history document.
func (s *Store) Log() Log {
	reviews := make([]ReviewRecord, len(s.log.Reviews))
	copy(reviews, s.log.Reviews)
	return Log{Reviews: reviews}
}

// Append adds rec to the log and flushes the whole document before
// returning. Timestamps never go backwards within a run: a record stamped
// earlier than the previous append takes the previous timestamp.
// If the flush fails the record is dropped from memory as well, so the
// in-memory log never runs ahead of what is on disk.
func (s *Store) Append(rec ReviewRecord) error {
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("invalid review record: %w", err)
	}

	ts := rec.Time()
	if ts.Before(s.last) {
		ts = s.last
		rec.Timestamp = FormatTime(ts)
	}

	s.log.Reviews = append(s.log.Reviews, rec)
	if err := s.Flush(); err != nil {
		s.log.Reviews = s.log.Reviews[:len(s.log.Reviews)-1]
		return err
	}
	s.last = ts

	log.WithFields(log.Fields{
		"path":    s.path,
		"brand":   rec.Brand,
		"product": rec.ProductName,
		"total":   len(s.log.Reviews),
	}).Debug("Review persisted")
	return nil
}

// Flush writes the full log to disk through a temp file and rename, so a
// crash mid-write leaves the previous document intact. Unreadable entries
// found by Open come first, ahead of the records.
func (s *Store) Flush() error {
	entries := make([]any, 0, len(s.unreadable)+len(s.log.Reviews))
	for _, raw := range s.unreadable {
		entries = append(entries, raw)
	}
	for _, rec := range s.log.Reviews {
		entries = append(entries, rec)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string][]any{"reviews": entries}); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
