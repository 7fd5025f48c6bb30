package auth

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoFake struct {
	byEmail    map[string]model.User
	lastLogins []int64
	nextID     int64
}

func newUserRepoFake() *userRepoFake {
	return &userRepoFake{byEmail: map[string]model.User{}}
}

func (r *userRepoFake) Create(ctx context.Context, user *model.User) error {
	r.nextID++
	user.ID = r.nextID
	r.byEmail[user.Email] = *user
	return nil
}

func (r *userRepoFake) FindByID(ctx context.Context, userID int64) (model.User, error) {
	panic("not used in these tests")
}

func (r *userRepoFake) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	u, ok := r.byEmail[email]
	return u, ok, nil
}

func (r *userRepoFake) UpdateLastLogin(ctx context.Context, userID int64) error {
	r.lastLogins = append(r.lastLogins, userID)
	return nil
}

type stubClock struct{ t time.Time }

func (c *stubClock) Now() time.Time { return c.t }

type stubIssuer struct{}

func (i *stubIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return "token", now.Add(15 * time.Minute), nil
}

func TestRegisterUser_Success(t *testing.T) {
	repo := newUserRepoFake()
	clock := &stubClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	uc := NewRegisterUserUsecase(repo, NewBcryptPasswordHasher(4), clock)

	out, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:     "jane@example.com",
		Password:  "correcthorse",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleUser, out.User.Role)
	assert.True(t, out.User.IsActive)
	//平文は保存しない
	assert.NotEqual(t, "correcthorse", out.User.PasswordHash)
	assert.NoError(t, NewBcryptPasswordVerifier().Verify(out.User.PasswordHash, "correcthorse"))
}

func TestRegisterUser_Validation(t *testing.T) {
	repo := newUserRepoFake()
	uc := NewRegisterUserUsecase(repo, NewBcryptPasswordHasher(4), &stubClock{t: time.Now()})

	_, err := uc.Execute(context.Background(), RegisterUserInput{Email: "not-an-email", Password: "correcthorse"})
	assert.ErrorIs(t, err, ErrInvalidEmailFormat)

	_, err = uc.Execute(context.Background(), RegisterUserInput{Email: "jane@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	repo := newUserRepoFake()
	uc := NewRegisterUserUsecase(repo, NewBcryptPasswordHasher(4), &stubClock{t: time.Now()})

	in := RegisterUserInput{Email: "jane@example.com", Password: "correcthorse"}
	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	repo := newUserRepoFake()
	hasher := NewBcryptPasswordHasher(4)
	hash, err := hasher.Hash("correcthorse")
	require.NoError(t, err)
	repo.byEmail["jane@example.com"] = model.User{
		ID: 1, Email: "jane@example.com", PasswordHash: hash,
		Role: model.RoleUser, IsActive: true,
	}

	uc := NewLoginUsecase(repo, NewBcryptPasswordVerifier(), &stubIssuer{}, &stubClock{t: time.Now()})

	out, err := uc.Execute(context.Background(), LoginInput{Email: "jane@example.com", Password: "correcthorse"})
	require.NoError(t, err)
	assert.Equal(t, "token", out.AccessToken)
	assert.Equal(t, []int64{1}, repo.lastLogins)
}

func TestLogin_WrongPasswordAndUnknownUserSameError(t *testing.T) {
	repo := newUserRepoFake()
	hasher := NewBcryptPasswordHasher(4)
	hash, _ := hasher.Hash("correcthorse")
	repo.byEmail["jane@example.com"] = model.User{
		ID: 1, Email: "jane@example.com", PasswordHash: hash,
		Role: model.RoleUser, IsActive: true,
	}

	uc := NewLoginUsecase(repo, NewBcryptPasswordVerifier(), &stubIssuer{}, &stubClock{t: time.Now()})

	//存在するユーザーの誤パスワードも、存在しないユーザーも同じエラー（列挙防止）
	_, err := uc.Execute(context.Background(), LoginInput{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Execute(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	repo := newUserRepoFake()
	hasher := NewBcryptPasswordHasher(4)
	hash, _ := hasher.Hash("correcthorse")
	repo.byEmail["jane@example.com"] = model.User{
		ID: 1, Email: "jane@example.com", PasswordHash: hash,
		Role: model.RoleUser, IsActive: false,
	}

	uc := NewLoginUsecase(repo, NewBcryptPasswordVerifier(), &stubIssuer{}, &stubClock{t: time.Now()})

	_, err := uc.Execute(context.Background(), LoginInput{Email: "jane@example.com", Password: "correcthorse"})
	assert.ErrorIs(t, err, ErrUserInactive)
}
