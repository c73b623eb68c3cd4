package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IntrospectionVerifier validates tokens by posting them to an OAuth2 token
// introspection endpoint (RFC 7662). Keycloak's
// /realms/<realm>/protocol/openid-connect/token/introspect is the deployment
// target; any compliant endpoint that reports realm roles works.
type IntrospectionVerifier struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// introspectionResponse is the subset of the RFC 7662 response the gateway
// reads. Keycloak returns the token's full claim set when active.
type introspectionResponse struct {
	Active      bool        `json:"active"`
	Sub         string      `json:"sub"`
	RealmAccess realmAccess `json:"realm_access"`
}

// NewIntrospectionVerifier creates a verifier that calls the given
// introspection endpoint with client-credential basic auth.
func NewIntrospectionVerifier(endpoint, clientID, clientSecret string) (*IntrospectionVerifier, error) {
	if endpoint == "" {
		return nil, errors.New("introspection endpoint is required")
	}
	return &IntrospectionVerifier{
		endpoint:     endpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Authorize posts the token to the introspection endpoint and checks the
// reported realm roles against requiredRoles. An inactive token is a clean
// rejection; a failed call to the identity provider is an error.
func (v *IntrospectionVerifier) Authorize(ctx context.Context, rawToken string, requiredRoles []string) (bool, error) {
	if rawToken == "" {
		return false, nil
	}

	form := url.Values{"token": {rawToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(v.clientID, v.clientSecret)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("call introspection endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("introspection endpoint returned %d", resp.StatusCode)
	}

	var result introspectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode introspection response: %w", err)
	}

	if !result.Active {
		return false, nil
	}
	return hasAnyRole(result.RealmAccess.Roles, requiredRoles), nil
}

// UserID derives the caller identity from the token's sub claim.
func (v *IntrospectionVerifier) UserID(rawToken string) (uuid.UUID, error) {
	return subjectUUID(rawToken)
}

var _ Verifier = (*IntrospectionVerifier)(nil)
