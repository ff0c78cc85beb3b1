package share

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

var (
	ErrFieldsRequired = errors.New("All Fields are required!!")
	ErrInvalidPhone   = errors.New("Please enter a valid 10-digit phone number.")
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

var (
	sessionMu      sync.RWMutex
	currentSession types.Session
	sessionPath    string
)

// ValidateLoginInput applies the login form checks to trimmed input.
func ValidateLoginInput(phone, password string) error {
	phone = strings.TrimSpace(phone)
	password = strings.TrimSpace(password)
	if phone == "" || password == "" {
		return ErrFieldsRequired
	}
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// LoadSession reads the session file at path. A missing file leaves an empty session.
func LoadSession(path string) error {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	sessionPath = path
	currentSession = types.Session{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read session file: %v", err)
	}
	var s types.Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse session file: %v", err)
	}
	currentSession = s
	return nil
}

// SetSession stores the session in memory and writes it to the session file when one is set.
func SetSession(s types.Session) error {
	s.AccessToken = strings.TrimSpace(s.AccessToken)
	s.CustomerUUID = strings.TrimSpace(s.CustomerUUID)

	sessionMu.Lock()
	defer sessionMu.Unlock()
	currentSession = s
	if sessionPath == "" {
		return nil
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %v", err)
	}
	if err := os.WriteFile(sessionPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %v", err)
	}
	tool.DefaultLogger.Debugf("[Session] Saved to %s", sessionPath)
	return nil
}

func GetSession() types.Session {
	sessionMu.RLock()
	defer sessionMu.RUnlock()
	return currentSession
}

// AccessToken returns the stored bearer token, empty when logged out.
func AccessToken() string {
	return GetSession().AccessToken
}

// ClearSession forgets the session and removes the session file.
func ClearSession() error {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	currentSession = types.Session{}
	if sessionPath == "" {
		return nil
	}
	if err := os.Remove(sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %v", err)
	}
	return nil
}
