package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ServiceAccount is the subset of a Google service-account key file the
// verifier needs. The private key is deliberately not decoded.
type ServiceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
}

// ParseServiceAccount decodes a service-account JSON blob as supplied
// through the environment.
func ParseServiceAccount(blob string) (*ServiceAccount, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, errors.New("service account is empty")
	}

	var sa ServiceAccount
	if err := json.Unmarshal([]byte(blob), &sa); err != nil {
		return nil, fmt.Errorf("decode service account: %w", err)
	}
	if sa.Type != "" && sa.Type != "service_account" {
		return nil, fmt.Errorf("unexpected credential type %q", sa.Type)
	}
	if sa.ProjectID == "" {
		return nil, errors.New("service account has no project_id")
	}
	return &sa, nil
}

// ResolveProjectID returns the explicit project id if set, otherwise the
// project_id of the service-account blob.
func ResolveProjectID(explicit, serviceAccountJSON string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	sa, err := ParseServiceAccount(serviceAccountJSON)
	if err != nil {
		return "", err
	}
	return sa.ProjectID, nil
}
