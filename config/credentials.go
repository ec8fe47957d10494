package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ServiceAccount holds the essential fields of a Google service-account JSON key.
type ServiceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

var (
	ErrCredentialsMissing   = errors.New("service account credentials are not configured")
	ErrCredentialsMalformed = errors.New("service account credentials are malformed")
)

// ParseServiceAccount decodes the credentials blob. Errors never include key material.
// Keys stored with escaped newlines ("\\n") are normalized to real newlines.
func ParseServiceAccount(raw string) (ServiceAccount, error) {
	if strings.TrimSpace(raw) == "" {
		return ServiceAccount{}, ErrCredentialsMissing
	}
	var sa ServiceAccount
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return ServiceAccount{}, fmt.Errorf("%w: not valid JSON", ErrCredentialsMalformed)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return ServiceAccount{}, fmt.Errorf("%w: client_email and private_key are required", ErrCredentialsMalformed)
	}
	sa.PrivateKey = strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")
	if !strings.Contains(sa.PrivateKey, "PRIVATE KEY") {
		return ServiceAccount{}, fmt.Errorf("%w: private_key is not a PEM block", ErrCredentialsMalformed)
	}
	return sa, nil
}
