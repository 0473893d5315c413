package client

import (
	"encoding/json"
	"os"
)

const sessionFile = "session.json"

// LocalSession persists the signed-in identity between client runs so the
// conversation resumes without another login.
type LocalSession struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`

	path string
}

// NewLocalSession returns a session backed by path; an empty path uses the
// default file in the working directory.
func NewLocalSession(path string) *LocalSession {
	if path == "" {
		path = sessionFile
	}
	return &LocalSession{path: path}
}

// Load reads the session file. A missing file leaves the session empty and
// is not an error.
func (ls *LocalSession) Load() error {
	f, err := os.Open(ls.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(ls)
}

// Save writes the session file.
func (ls *LocalSession) Save() error {
	f, err := os.Create(ls.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(ls)
}

// Clear empties the session and removes the file.
func (ls *LocalSession) Clear() error {
	ls.Token, ls.Email, ls.Name = "", "", ""
	err := os.Remove(ls.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
