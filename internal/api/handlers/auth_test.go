package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/pitcher-favorites/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RegisterResponse struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
	Message string `json:"message"`
}

type UserInfoResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewUserBuilder().WithUsername("taken").Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful registration",
			body: map[string]string{
				"username": "newuser",
				"email":    "newuser@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result RegisterResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "newuser", result.User.Username)
				assert.Equal(t, "newuser@example.com", result.User.Email)
				assert.NotEmpty(t, result.User.ID)
				assert.Equal(t, "User Created Successfully", result.Message)
			},
		},
		{
			name: "duplicate username",
			body: map[string]string{
				"username": "taken",
				"email":    "taken@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "invalid email",
			body: map[string]string{
				"username": "bademail",
				"email":    "not-an-email",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "email")
			},
		},
		{
			name: "short password",
			body: map[string]string{
				"username": "shortpw",
				"email":    "shortpw@example.com",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty body",
			body:           nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.PostJSON(t, ts.APIURL("/users"), tt.body, "")
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_ObtainToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewUserBuilder().
		WithUsername("tokenuser").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			body:           map[string]string{"username": "tokenuser", "password": "correctpassword"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			body:           map[string]string{"username": "tokenuser", "password": "wrongpassword"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			body:           map[string]string{"username": "tokenuser"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.PostJSON(t, ts.APIURL("/token"), tt.body, "")
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var tokens testutil.TokenResponse
				testutil.AssertJSONResponse(t, resp, &tokens)
				assert.NotEmpty(t, tokens.Access)
				assert.NotEmpty(t, tokens.Refresh)
			}
		})
	}
}

func TestAuthHandler_RefreshAndRevoke(t *testing.T) {
	ts := testutil.NewTestServer(t)

	builder := testutil.NewUserBuilder()
	builder.BuildAndAuthenticate(t, ts)
	tokens := builder.ObtainTokens(t, ts)

	resp := testutil.PostJSON(t, ts.APIURL("/token/refresh"), map[string]string{"refresh": tokens.Refresh}, "")
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var rotated testutil.TokenResponse
	testutil.AssertJSONResponse(t, resp, &rotated)
	require.NotEmpty(t, rotated.Refresh)
	assert.NotEqual(t, tokens.Refresh, rotated.Refresh)

	// The old refresh token was rotated out
	stale := testutil.PostJSON(t, ts.APIURL("/token/refresh"), map[string]string{"refresh": tokens.Refresh}, "")
	defer stale.Body.Close()
	testutil.AssertStatusCode(t, stale, http.StatusUnauthorized)

	revoke := testutil.PostJSON(t, ts.APIURL("/token/revoke"), nil, rotated.Access)
	defer revoke.Body.Close()
	testutil.AssertStatusCode(t, revoke, http.StatusNoContent)

	revoked := testutil.PostJSON(t, ts.APIURL("/token/refresh"), map[string]string{"refresh": rotated.Refresh}, "")
	defer revoked.Body.Close()
	testutil.AssertStatusCode(t, revoked, http.StatusUnauthorized)
}

func TestAuthHandler_Info(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().
		WithUsername("infouser").
		BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{
			name:           "authenticated",
			token:          token,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no token",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			token:          "not.a.jwt",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, http.MethodGet, ts.APIURL("/users/info"), nil, tt.token)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var info UserInfoResponse
				testutil.AssertJSONResponse(t, resp, &info)
				assert.Equal(t, user.ID.String(), info.ID)
				assert.Equal(t, "infouser", info.Username)
				assert.Equal(t, "infouser@example.com", info.Email)
			}
		})
	}
}
