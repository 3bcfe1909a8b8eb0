package usecase

import (
	"context"
	"testing"
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newAuthUsecase() (*AuthUsecase, *UserRepoMock, *RefreshTokenRepoMock, *CartRepoMock) {
	users := new(UserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	carts := new(CartRepoMock)
	cfg := config.Config{JWTSecret: "test-secret"}
	uc := NewAuthUsecase(cfg, users, tokens, carts, testClock())
	return uc, users, tokens, carts
}

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestRegister_CreatesUserAndCart(t *testing.T) {
	uc, users, _, carts := newAuthUsecase()

	users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, repo.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		//平文パスワードを保存していないこと
		return u.Email == "new@example.com" &&
			u.PasswordHash != "password123" &&
			u.Role == model.RoleUser &&
			u.IsActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 7
	}).Return(nil)
	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5, UserID: 7}, nil)

	out, err := uc.Register(context.Background(), AuthRegisterRequest{
		Email:    "New@Example.com",
		Password: "password123",
		Name:     "A",
	})
	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", out.Email)

	users.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, users, _, _ := newAuthUsecase()

	users.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: 1}, nil)

	_, err := uc.Register(context.Background(), AuthRegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "already registered")
}

func TestRegister_ShortPassword(t *testing.T) {
	uc, _, _, _ := newAuthUsecase()

	_, err := uc.Register(context.Background(), AuthRegisterRequest{
		Email:    "a@example.com",
		Password: "short",
	})
	assertErrContains(t, err, "password")
}

func TestLogin_Success_IssuesTokens(t *testing.T) {
	uc, users, tokens, _ := newAuthUsecase()

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID:           7,
		Email:        "a@example.com",
		PasswordHash: hashedPassword(t, "password123"),
		Role:         model.RoleUser,
		IsActive:     true,
	}, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)
	tokens.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		//平文ではなくhashを保存していること
		return rt.UserID == 7 && rt.TokenHash != "" && rt.ID != ""
	})).Return(nil)

	res, err := uc.Login(context.Background(), AuthLoginRequest{
		Email:    "a@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.RefreshTokenPlain)
	assert.NotEmpty(t, res.Body.Token.AccessToken)

	//発行したJWTのclaimsを確認
	tok, err := jwt.Parse(res.Body.Token.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["sub"])
	assert.Equal(t, "USER", claims["role"])

	//DB保存されたhashは平文と一致しない
	tokens.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	uc, users, _, _ := newAuthUsecase()

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID:           7,
		PasswordHash: hashedPassword(t, "password123"),
		IsActive:     true,
	}, nil)

	_, err := uc.Login(context.Background(), AuthLoginRequest{
		Email:    "a@example.com",
		Password: "wrong",
	})
	assertErrContains(t, err, "invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	uc, users, _, _ := newAuthUsecase()

	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, repo.ErrUserNotFound)

	_, err := uc.Login(context.Background(), AuthLoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "invalid email or password")
}

func TestLogin_DisabledAccount(t *testing.T) {
	uc, users, _, _ := newAuthUsecase()

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID:           7,
		PasswordHash: hashedPassword(t, "password123"),
		IsActive:     false,
	}, nil)

	_, err := uc.Login(context.Background(), AuthLoginRequest{
		Email:    "a@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "disabled")
}

func TestRefresh_RotatesToken(t *testing.T) {
	uc, users, tokens, _ := newAuthUsecase()

	plain := "some-refresh-token"
	stored := &model.RefreshToken{
		ID:        "rt-1",
		UserID:    7,
		TokenHash: hashToken(plain),
		ExpiresAt: testClock().Now().Add(time.Hour),
	}

	tokens.On("FindByTokenHash", mock.Anything, hashToken(plain)).Return(stored, nil)
	users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, Role: model.RoleUser, IsActive: true}, nil)
	tokens.On("Revoke", mock.Anything, "rt-1", mock.Anything).Return(nil)
	tokens.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == 7 && rt.TokenHash != stored.TokenHash
	})).Return(nil)

	res, err := uc.Refresh(context.Background(), plain)
	assert.NoError(t, err)
	assert.NotEmpty(t, res.RefreshTokenPlain)
	assert.NotEqual(t, plain, res.RefreshTokenPlain)

	tokens.AssertExpectations(t)
}

func TestRefresh_Expired(t *testing.T) {
	uc, _, tokens, _ := newAuthUsecase()

	plain := "old-token"
	tokens.On("FindByTokenHash", mock.Anything, hashToken(plain)).Return(&model.RefreshToken{
		ID:        "rt-1",
		UserID:    7,
		ExpiresAt: testClock().Now().Add(-time.Hour),
	}, nil)

	_, err := uc.Refresh(context.Background(), plain)
	assertErrContains(t, err, "unauthorized")
}

// 失効済みtokenの再利用は全セッション削除
func TestRefresh_RevokedToken_DeletesAllSessions(t *testing.T) {
	uc, _, tokens, _ := newAuthUsecase()

	plain := "revoked-token"
	revokedAt := testClock().Now().Add(-time.Minute)
	tokens.On("FindByTokenHash", mock.Anything, hashToken(plain)).Return(&model.RefreshToken{
		ID:        "rt-1",
		UserID:    7,
		ExpiresAt: testClock().Now().Add(time.Hour),
		RevokedAt: &revokedAt,
	}, nil)
	tokens.On("DeleteAllByUserID", mock.Anything, int64(7)).Return(nil)

	_, err := uc.Refresh(context.Background(), plain)
	assertErrContains(t, err, "unauthorized")

	tokens.AssertExpectations(t)
}

func TestLogout_DeletesAllTokens(t *testing.T) {
	uc, _, tokens, _ := newAuthUsecase()

	tokens.On("DeleteAllByUserID", mock.Anything, int64(7)).Return(nil)

	err := uc.Logout(context.Background(), 7)
	assert.NoError(t, err)

	tokens.AssertExpectations(t)
}
