package testutil

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	username := fmt.Sprintf("testuser_%s", uuid.New().String()[:8])
	return &UserBuilder{
		username: username,
		email:    username + "@example.com",
		password: "testpassword123",
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	b.email = username + "@example.com"
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// TokenResponse matches the API token response
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// BuildAndAuthenticate registers the user via the API, obtains a token pair
// and returns the user and access token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	resp := PostJSON(t, ts.APIURL("/users/"), map[string]string{
		"username": b.username,
		"email":    b.email,
		"password": b.password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected register status code: %d", resp.StatusCode)
	}

	var registered struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&registered); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}

	tokens := b.ObtainTokens(t, ts)

	userID, _ := uuid.Parse(registered.User.ID)
	user := &domain.User{
		ID:       userID,
		Username: registered.User.Username,
		Email:    registered.User.Email,
	}

	return user, tokens.Access
}

// ObtainTokens logs the user in through POST /token.
func (b *UserBuilder) ObtainTokens(t *testing.T, ts *TestServer) *TokenResponse {
	t.Helper()

	resp := PostJSON(t, ts.APIURL("/token/"), map[string]string{
		"username": b.username,
		"password": b.password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected token status code: %d", resp.StatusCode)
	}

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	return &tokens
}

// PitcherBuilder creates test pitchers
type PitcherBuilder struct {
	name      string
	teamName  string
	pitchType string
	throws    string
	spinRate  float64
}

// NewPitcherBuilder creates a new PitcherBuilder with default values
func NewPitcherBuilder() *PitcherBuilder {
	return &PitcherBuilder{
		name:      fmt.Sprintf("Pitcher %s", uuid.New().String()[:8]),
		teamName:  "Los Angeles Dodgers",
		pitchType: "FF",
		throws:    "R",
		spinRate:  2350.5,
	}
}

// WithName sets the player name
func (b *PitcherBuilder) WithName(name string) *PitcherBuilder {
	b.name = name
	return b
}

// WithTeam sets the team name
func (b *PitcherBuilder) WithTeam(team string) *PitcherBuilder {
	b.teamName = team
	return b
}

// WithPitchType sets the pitch type code
func (b *PitcherBuilder) WithPitchType(pitchType string) *PitcherBuilder {
	b.pitchType = pitchType
	return b
}

// WithThrows sets the throwing hand
func (b *PitcherBuilder) WithThrows(throws string) *PitcherBuilder {
	b.throws = throws
	return b
}

// Build creates the pitcher in the database
func (b *PitcherBuilder) Build(t *testing.T, db *gorm.DB) *domain.Pitcher {
	t.Helper()

	pitcher := &domain.Pitcher{
		ID:                  uuid.New(),
		PlayerName:          b.name,
		PlayerImage:         "https://img.example.com/players/1.png",
		TeamName:            b.teamName,
		TeamLogo:            "https://img.example.com/teams/1.png",
		StandSide:           "R",
		PitchType:           b.pitchType,
		VelocityRange:       "95-99",
		UsageRate:           "45.2%",
		ZoneRate:            "51.0%",
		AvgSpinRate:         b.spinRate,
		AvgHorzBreak:        -7.4,
		AvgInducedVertBreak: 16.1,
		ArmAngle:            38.5,
		Throws:              b.throws,
		HeatmapPath:         "heatmaps/1.png",
		CreatedAt:           time.Now(),
	}

	if err := db.Create(pitcher).Error; err != nil {
		t.Fatalf("failed to create pitcher: %v", err)
	}

	return pitcher
}

// SeedPitchers creates N test pitchers in the database
func SeedPitchers(t *testing.T, db *gorm.DB, count int) []*domain.Pitcher {
	t.Helper()

	pitchers := make([]*domain.Pitcher, count)
	for i := 0; i < count; i++ {
		pitchers[i] = NewPitcherBuilder().
			WithName(fmt.Sprintf("Test Pitcher %d", i)).
			Build(t, db)
	}
	return pitchers
}

// AddFavorite links user and pitcher directly in the database.
func AddFavorite(t *testing.T, db *gorm.DB, user *domain.User, pitcher *domain.Pitcher) *domain.FavoritePitcher {
	t.Helper()

	favorite := &domain.FavoritePitcher{
		ID:        uuid.New(),
		UserID:    user.ID,
		PitcherID: pitcher.ID,
		CreatedAt: time.Now(),
	}
	if err := db.Create(favorite).Error; err != nil {
		t.Fatalf("failed to create favorite: %v", err)
	}
	return favorite
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	bodyReader := bytes.NewBuffer(nil)
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// Do sends an authenticated request and returns the response.
func Do(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(CreateAuthenticatedRequest(t, method, url, body, token))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	return resp
}

// PostJSON posts body as JSON, with a bearer token when token is set.
func PostJSON(t *testing.T, url string, body interface{}, token string) *http.Response {
	t.Helper()
	return Do(t, http.MethodPost, url, body, token)
}
