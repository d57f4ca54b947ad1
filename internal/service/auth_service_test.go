package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/dom/pitcher-favorites/internal/repository/postgres"
	"github.com/dom/pitcher-favorites/internal/service"
	"github.com/dom/pitcher-favorites/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, repos.Session, cfg)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Username: "newuser",
				Email:    "newuser@example.com",
				Password: "password123",
			},
		},
		{
			name: "duplicate username",
			input: service.RegisterInput{
				Username: "existinguser",
				Email:    "existing@example.com",
				Password: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithUsername("existinguser").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrUsernameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clean up between tests
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			user, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Username, user.Username)
			assert.Equal(t, tt.input.Email, user.Email)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, repos.Session, cfg)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().
		WithUsername("loginuser").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "successful login",
			input: service.LoginInput{Username: "loginuser", Password: password},
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Username: "loginuser", Password: "wrongpassword"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "unknown user",
			input:   service.LoginInput{Username: "nobody", Password: password},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, pair.User.ID)
			assert.NotEmpty(t, pair.AccessToken)
			assert.NotEmpty(t, pair.RefreshToken)

			claims, err := authService.ValidateToken(pair.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID.String(), claims.Subject)
			assert.Equal(t, "loginuser", claims.Username)
		})
	}
}

func TestAuthService_RefreshTokens(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, repos.Session, cfg)
	ctx := context.Background()

	_, password := testutil.NewUserBuilder().WithUsername("refresher").Build(t, testDB.DB)

	pair, err := authService.Login(ctx, service.LoginInput{Username: "refresher", Password: password})
	require.NoError(t, err)

	rotated, err := authService.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	assert.NotEmpty(t, rotated.AccessToken)

	// The previous refresh token no longer works after rotation
	_, err = authService.RefreshTokens(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)

	invalid := []string{
		"",
		"not-a-token",
		uuid.New().String() + ".secret",
		uuid.New().String(),
	}
	for _, token := range invalid {
		_, err := authService.RefreshTokens(ctx, token)
		assert.ErrorIs(t, err, service.ErrInvalidRefreshToken, "token %q", token)
	}

	require.NoError(t, authService.Logout(ctx, rotated.User.ID))
	_, err = authService.RefreshTokens(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestAuthService_RefreshTokensConcurrent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, repos.Session, testutil.TestConfig())
	ctx := context.Background()

	_, password := testutil.NewUserBuilder().WithUsername("racer").Build(t, testDB.DB)
	pair, err := authService.Login(ctx, service.LoginInput{Username: "racer", Password: password})
	require.NoError(t, err)

	const attempts = 4
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = authService.RefreshTokens(ctx, pair.RefreshToken)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
	}
	assert.Equal(t, 1, succeeded, "a refresh token can be used once")
}

func TestAuthService_ValidateToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, repos.Session, cfg)
	ctx := context.Background()

	_, password := testutil.NewUserBuilder().WithUsername("validator").Build(t, testDB.DB)
	pair, err := authService.Login(ctx, service.LoginInput{Username: "validator", Password: password})
	require.NoError(t, err)

	otherCfg := testutil.TestConfig()
	otherCfg.JWTSecret = "a-different-secret"
	otherService := service.NewAuthService(repos.User, repos.Session, otherCfg)

	_, err = otherService.ValidateToken(pair.AccessToken)
	assert.Error(t, err, "token signed with another secret must be rejected")

	_, err = authService.ValidateToken("garbage")
	assert.Error(t, err)
}

func TestAuthService_GetUserByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, repos.Session, testutil.TestConfig())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	found, err := authService.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, found.Username)

	_, err = authService.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.True(t, authService.IsAdmin(testutil.AdminUsername))
	assert.False(t, authService.IsAdmin(user.Username))
}
