package app

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the tenant allow-list plus the staff roster, loaded from two
// JSON files mapping name to secret. Secrets may be bcrypt hashes or plain
// text for demo deployments.
type Credentials struct {
	Hospitals map[string]string
	Staff     map[string]string
}

func LoadCredentials(hospitalPath, staffPath string) (Credentials, error) {
	hospitals, err := loadCredentialFile(hospitalPath)
	if err != nil {
		return Credentials{}, fmt.Errorf("load hospital credentials: %w", err)
	}
	staff, err := loadCredentialFile(staffPath)
	if err != nil {
		return Credentials{}, fmt.Errorf("load staff credentials: %w", err)
	}
	return Credentials{Hospitals: hospitals, Staff: staff}, nil
}

func loadCredentialFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var creds map[string]string
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return creds, nil
}

// HospitalNames returns the tenant roster in display order for the login
// drop-down.
func (c Credentials) HospitalNames() []string {
	names := make([]string, 0, len(c.Hospitals))
	for name := range c.Hospitals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// verifySecret accepts either a bcrypt hash or a plain-text secret on file.
func verifySecret(onFile, presented string) bool {
	if onFile == "" {
		return false
	}
	if strings.HasPrefix(onFile, "$2a$") || strings.HasPrefix(onFile, "$2b$") || strings.HasPrefix(onFile, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(onFile), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(onFile), []byte(presented)) == 1
}

// findHospital resolves a tenant name case-insensitively against the roster
// and returns the canonical name on file.
func (c Credentials) findHospital(name string) (string, string, bool) {
	needle := strings.TrimSpace(name)
	if secret, ok := c.Hospitals[needle]; ok {
		return needle, secret, true
	}
	for canonical, secret := range c.Hospitals {
		if strings.EqualFold(canonical, needle) {
			return canonical, secret, true
		}
	}
	return "", "", false
}
