package session

import (
	"encoding/json"
	"os"
)

// TokenStorage persists the bearer token between process runs.
type TokenStorage interface {
	// Load returns the stored token, or an empty string if none exists.
	Load() (string, error)
	// Save durably stores the token.
	Save(token string) error
	// Clear removes any stored token. Clearing an empty storage is not an error.
	Clear() error
}

// FileStorage keeps the token in a small JSON file on disk.
type FileStorage struct {
	// Path is the location of the token file.
	Path string
}

// NewFileStorage returns a FileStorage writing to the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

type tokenFile struct {
	Token string `json:"token"`
}

// Load reads the token file. A missing file yields an empty token.
func (f *FileStorage) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", err
	}
	return tf.Token, nil
}

// Save writes the token file, readable by the owner only.
func (f *FileStorage) Save(token string) error {
	data, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0600)
}

// Clear removes the token file.
func (f *FileStorage) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
