package token

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// introspectionStub serves a canned RFC 7662 response and records how it was
// called.
type introspectionStub struct {
	response introspectionResponse
	status   int
	gotToken string
	gotUser  string
	gotPass  string
}

func (s *introspectionStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		s.gotToken = r.PostFormValue("token")
		s.gotUser, s.gotPass, _ = r.BasicAuth()

		if s.status != 0 && s.status != http.StatusOK {
			w.WriteHeader(s.status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.response)
	}
}

func TestIntrospectionVerifierAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response introspectionResponse
		roles    []string
		allowed  bool
	}{
		{
			name: "active token with required role",
			response: introspectionResponse{
				Active:      true,
				Sub:         uuid.New().String(),
				RealmAccess: realmAccess{Roles: []string{"user"}},
			},
			roles:   []string{"user"},
			allowed: true,
		},
		{
			name: "active token lacking role",
			response: introspectionResponse{
				Active:      true,
				RealmAccess: realmAccess{Roles: []string{"viewer"}},
			},
			roles:   []string{"user"},
			allowed: false,
		},
		{
			name:     "inactive token",
			response: introspectionResponse{Active: false},
			roles:    []string{"user"},
			allowed:  false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			stub := &introspectionStub{response: tc.response}
			srv := httptest.NewServer(stub.handler())
			defer srv.Close()

			v, err := NewIntrospectionVerifier(srv.URL, "media-proxy", "s3cret")
			require.NoError(t, err)

			allowed, err := v.Authorize(context.Background(), "the-token", tc.roles)
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)

			assert.Equal(t, "the-token", stub.gotToken)
			assert.Equal(t, "media-proxy", stub.gotUser)
			assert.Equal(t, "s3cret", stub.gotPass)
		})
	}
}

func TestIntrospectionVerifierEmptyToken(t *testing.T) {
	t.Parallel()

	// An empty token is rejected without calling the endpoint.
	v, err := NewIntrospectionVerifier("http://127.0.0.1:1/introspect", "id", "secret")
	require.NoError(t, err)

	allowed, err := v.Authorize(context.Background(), "", []string{"user"})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestIntrospectionVerifierEndpointFailure(t *testing.T) {
	t.Parallel()

	stub := &introspectionStub{status: http.StatusInternalServerError}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	v, err := NewIntrospectionVerifier(srv.URL, "id", "secret")
	require.NoError(t, err)

	_, err = v.Authorize(context.Background(), "the-token", []string{"user"})
	assert.Error(t, err)
}

func TestIntrospectionVerifierUnreachableEndpoint(t *testing.T) {
	t.Parallel()

	v, err := NewIntrospectionVerifier("http://127.0.0.1:1/introspect", "id", "secret")
	require.NoError(t, err)

	_, err = v.Authorize(context.Background(), "the-token", []string{"user"})
	assert.Error(t, err)
}

func TestNewIntrospectionVerifierRequiresEndpoint(t *testing.T) {
	t.Parallel()

	_, err := NewIntrospectionVerifier("", "id", "secret")
	assert.Error(t, err)
}
