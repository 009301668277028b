package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"calendar-api/core/errors"
	"calendar-api/core/utils"
	"calendar-api/internal/testutil"
	"calendar-api/modules/auth/dto"
	"calendar-api/modules/auth/entity"
	"calendar-api/modules/auth/service"
	calendarEntity "calendar-api/modules/calendar/entity"
	categoryEntity "calendar-api/modules/category/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	calendars []*calendarEntity.Calendar
}

func newUserRepo() *userRepo {
	return &userRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *userRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *userRepo) GetUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(identifier) || u.Username == identifier {
			return u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) CreateUserWithMainCalendar(ctx context.Context, user *entity.User, mainCalendar *calendarEntity.Calendar, defaultCategory *categoryEntity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.New()
	mainCalendar.ID = uuid.New()
	mainCalendar.OwnerID = user.ID
	r.users[user.ID] = user
	r.calendars = append(r.calendars, mainCalendar)
	return nil
}

type fixture struct {
	repo  *userRepo
	cache *testutil.Cache
	svc   *service.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	utils.ConfigureTokens(utils.TokenSettings{Secret: "auth-test-secret", Issuer: "calendar-api-test"})
	repo := newUserRepo()
	cache := testutil.NewCache()
	clock := testutil.NewClock(time.Now())
	return &fixture{repo: repo, cache: cache, svc: service.NewAuthService(repo, cache, clock)}
}

func (f *fixture) register(t *testing.T, username string) *dto.AuthResponse {
	t.Helper()
	resp, appErr := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Username: username,
		Email:    " " + strings.ToUpper(username) + "@Example.com",
		Password: "s3cret-pass",
	})
	require.Nil(t, appErr)
	return resp
}

func TestRegister_CreatesMainCalendar(t *testing.T) {
	f := newFixture(t)

	resp := f.register(t, "alice")
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	require.Len(t, f.repo.calendars, 1)
	assert.True(t, f.repo.calendars[0].IsMain)
	assert.Equal(t, resp.User.ID, f.repo.calendars[0].OwnerID)

	_, appErr := f.svc.Register(context.Background(), &dto.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "another-pass"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)
}

func TestLogin_BlocksAfterRepeatedFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "bob")
	ctx := context.Background()

	resp, appErr := f.svc.Login(ctx, &dto.LoginRequest{Identifier: "bob", Password: "s3cret-pass"})
	require.Nil(t, appErr)
	assert.Equal(t, "bob", resp.User.Username)

	for i := 0; i < int(f.cache.MaxFails); i++ {
		_, appErr = f.svc.Login(ctx, &dto.LoginRequest{Identifier: "bob", Password: "wrong"})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	}

	_, appErr = f.svc.Login(ctx, &dto.LoginRequest{Identifier: "bob", Password: "s3cret-pass"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrLoginBlocked, appErr.Code)
}

func TestRefreshToken_RotatesAndRevokes(t *testing.T) {
	f := newFixture(t)
	first := f.register(t, "carol")
	ctx := context.Background()

	second, appErr := f.svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.Nil(t, appErr)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, appErr = f.svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrTokenRevoked, appErr.Code)

	_, appErr = f.svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: second.AccessToken})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestRefreshToken_ConcurrentReuseSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	first := f.register(t, "erin")
	ctx := context.Background()

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		revoked int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, appErr := f.svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
			mu.Lock()
			defer mu.Unlock()
			if appErr == nil {
				ok++
			} else if appErr.Code == errors.ErrTokenRevoked {
				revoked++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, revoked)
}

func TestLogout_RevokesBothTokens(t *testing.T) {
	f := newFixture(t)
	resp := f.register(t, "dave")
	ctx := context.Background()

	accessClaims, err := utils.ValidateAndParseToken(resp.AccessToken)
	require.NoError(t, err)
	refreshClaims, err := utils.ValidateAndParseToken(resp.RefreshToken)
	require.NoError(t, err)

	require.Nil(t, f.svc.Logout(ctx, accessClaims, resp.RefreshToken))

	revoked, _ := f.cache.IsTokenRevoked(ctx, accessClaims.ID)
	assert.True(t, revoked)
	revoked, _ = f.cache.IsTokenRevoked(ctx, refreshClaims.ID)
	assert.True(t, revoked)
}

func TestLogout_RejectsForeignRefreshToken(t *testing.T) {
	f := newFixture(t)
	erin := f.register(t, "erin")
	frank := f.register(t, "frank")

	claims, err := utils.ValidateAndParseToken(erin.AccessToken)
	require.NoError(t, err)

	appErr := f.svc.Logout(context.Background(), claims, frank.RefreshToken)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	resp := f.register(t, "gina")

	me, appErr := f.svc.Me(context.Background(), resp.User.ID)
	require.Nil(t, appErr)
	assert.Equal(t, "gina", me.Username)

	_, appErr = f.svc.Me(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
