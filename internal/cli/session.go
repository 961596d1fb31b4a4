package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
)

const sessionFile = "session.json"

// Session is the logged-in account remembered between runs.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func sessionPath(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

func SaveSession(dir string, s Session) error {
	path, err := sessionPath(dir)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o600)
}

func LoadSession(dir string) (Session, error) {
	path, err := sessionPath(dir)
	if err != nil {
		return Session{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(s.UserID) == "" {
		return Session{}, fmt.Errorf("no user id found in session")
	}
	return s, nil
}

func ClearSession(dir string) error {
	path := filepath.Join(dir, sessionFile)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}
