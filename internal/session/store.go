package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// persisted mirrors the storage layout the backend team expects from
// clients: access_token, refresh_token and the serialized user.
type persisted struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	AuthUser     json.RawMessage `json:"auth_user"`
}

// Store persists the session between runs. Clear must remove every key.
type Store interface {
	Load() (persisted, error)
	Save(persisted) error
	Clear() error
}

// ErrNoSession is returned by Load when nothing was persisted.
var ErrNoSession = errors.New("session: no persisted session")

// FileStore keeps the session in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path, creating parent directories on
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (persisted, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return persisted{}, ErrNoSession
		}
		return persisted{}, err
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return persisted{}, err
	}
	return p, nil
}

func (s *FileStore) Save(p persisted) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
