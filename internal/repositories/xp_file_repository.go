package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/mroshb/beach_trivia_bot/internal/models"
	"github.com/mroshb/beach_trivia_bot/pkg/errors"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

// FileXPRepository keeps the whole mapping in memory and rewrites the JSON file on every award.
// An award costs O(total users).
type FileXPRepository struct {
	path string

	mu    sync.Mutex
	xp    map[string]int64
	order []string // first-award order
}

// NewFileXPRepository loads path. A missing file starts an empty mapping; an unreadable
// or corrupt one is an error.
func NewFileXPRepository(path string) (*FileXPRepository, error) {
	r := &FileXPRepository{
		path: path,
		xp:   make(map[string]int64),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileXPRepository) load() error {
	data, err := os.ReadFile(r.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		logger.Info("XP file not found, starting empty", "path", r.path)
		return nil
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to read xp file")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := r.decode(data); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "corrupt xp file "+r.path)
	}

	logger.Info("XP file loaded", "path", r.path, "users", len(r.order))
	return nil
}

// decode reads a flat {"id": xp} object keeping key order.
func (r *FileXPRepository) decode(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		userID, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected a string key")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		xp, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("xp for %q is not an integer: %s", userID, raw)
		}
		if xp < 0 {
			return fmt.Errorf("xp for %q is negative: %d", userID, xp)
		}

		if _, seen := r.xp[userID]; !seen {
			r.order = append(r.order, userID)
		}
		r.xp[userID] = xp
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after xp object")
	}
	return nil
}

func (r *FileXPRepository) GetXP(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.xp[userID], nil
}

// AddXP updates the total and persists synchronously. When the write fails the new
// total is still returned alongside the error and kept in memory.
func (r *FileXPRepository) AddXP(_ context.Context, userID string, amount int64) (int64, error) {
	if err := validateAward(userID, amount); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.xp[userID]; !seen {
		r.order = append(r.order, userID)
	}
	r.xp[userID] += amount
	total := r.xp[userID]

	if err := r.persistLocked(); err != nil {
		return total, errors.Wrap(err, errors.ErrCodeInternalError, "failed to save xp file")
	}
	return total, nil
}

func (r *FileXPRepository) ListXP(_ context.Context) ([]models.UserXP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]models.UserXP, 0, len(r.order))
	for _, userID := range r.order {
		records = append(records, models.UserXP{UserID: userID, XP: r.xp[userID]})
	}
	return records, nil
}

// encodeLocked renders the mapping as a JSON object indented by four spaces.
func (r *FileXPRepository) encodeLocked() ([]byte, error) {
	if len(r.order) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, userID := range r.order {
		key, err := json.Marshal(userID)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "    %s: %d", key, r.xp[userID])
		if i < len(r.order)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// persistLocked writes a temp file next to the target and renames it into place.
func (r *FileXPRepository) persistLocked() error {
	data, err := r.encodeLocked()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
