package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
	"paisabook/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn            func(email, password, fullName string) (*models.User, error)
	getUserByEmailFn        func(email string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	verifyPasswordFn        func(user *models.User, password string) bool
	upsertGoogleUserFn      func(email, fullName, subject, pictureURL string) (*models.User, error)
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
}

func (m *mockUserService) CreateUser(email, password, fullName string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, fullName)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) UpsertGoogleUser(email, fullName, subject, pictureURL string) (*models.User, error) {
	if m.upsertGoogleUserFn != nil {
		return m.upsertGoogleUserFn(email, fullName, subject, pictureURL)
	}
	return &models.User{}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

type mockGoogleAuth struct {
	verifyFn   func(rawToken string) (*GoogleClaims, error)
	exchangeFn func(code string) (string, error)
}

func (m *mockGoogleAuth) VerifyIDToken(_ context.Context, rawToken string) (*GoogleClaims, error) {
	if m.verifyFn != nil {
		return m.verifyFn(rawToken)
	}
	return &GoogleClaims{Subject: "sub", Email: "g@example.com"}, nil
}

func (m *mockGoogleAuth) ExchangeCode(_ context.Context, code string) (string, error) {
	if m.exchangeFn != nil {
		return m.exchangeFn(code)
	}
	return "id-token", nil
}

// --- test helpers ---

const testUserID = "0195a2f0-1111-7000-8000-000000000001"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", handler.Refresh)
	r.POST("/auth/google", handler.GoogleToken)
	r.POST("/auth/google-code", handler.GoogleCode)
	r.GET("/auth/me", injectUserID(testUserID), handler.Me)
	r.POST("/auth/logout", injectUserID(testUserID), handler.Logout)
	return r
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	if result["success"] != false {
		t.Errorf("expected success false, got %v", result["success"])
	}
	if result["error"] != code {
		t.Errorf("expected error code %q, got %v", code, result["error"])
	}
}

func dataObject(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object in response, got: %v", result)
	}
	return data
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with token pair", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(email, _, fullName string) (*models.User, error) {
				return &models.User{
					Base:     models.Base{ID: testUserID},
					Email:    email,
					FullName: fullName,
				}, nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"test@example.com","password":"password123","full_name":"Test User"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		data := dataObject(t, parseJSON(t, rec))
		if data["access_token"] == nil || data["access_token"] == "" {
			t.Error("expected non-empty access_token")
		}
		if data["refresh_token"] == nil || data["refresh_token"] == "" {
			t.Error("expected non-empty refresh_token")
		}
		user := data["user"].(map[string]interface{})
		if user["email"] != "test@example.com" {
			t.Errorf("expected email test@example.com, got %v", user["email"])
		}
	})

	t.Run("returns 400 on missing email", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"test@example.com","password":"short"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		handler := NewAuthHandler(userSvc, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"dup@example.com","password":"password123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})

	t.Run("stores refresh token hash", func(t *testing.T) {
		var storedHash string
		userSvc := &mockUserService{
			createUserFn: func(email, _, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
			},
			storeRefreshTokenHashFn: func(_, hash string) error {
				storedHash = hash
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if len(storedHash) != 64 {
			t.Errorf("expected SHA-256 hex digest (64 chars), got %d chars", len(storedHash))
		}
	})

	t.Run("returns 500 when token storage fails", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(email, _, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
			},
			storeRefreshTokenHashFn: func(_, _ string) error {
				return fmt.Errorf("db connection lost")
			},
		}
		handler := NewAuthHandler(userSvc, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByEmailFn: func(email string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := dataObject(t, parseJSON(t, rec))
		if data["access_token"] == nil || data["access_token"] == "" {
			t.Error("expected non-empty access_token")
		}
	})

	t.Run("returns 401 on wrong password", func(t *testing.T) {
		userSvc := &mockUserService{
			verifyPasswordFn: func(_ *models.User, _ string) bool { return false },
		}
		handler := NewAuthHandler(userSvc, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByEmailFn: func(_ string) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		handler := NewAuthHandler(userSvc, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"ghost@example.com","password":"password123"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})
}

func TestAuthHandler_Google(t *testing.T) {
	t.Run("id token sign-in returns 200", func(t *testing.T) {
		userSvc := &mockUserService{
			upsertGoogleUserFn: func(email, fullName, subject, _ string) (*models.User, error) {
				return &models.User{
					Base:          models.Base{ID: testUserID},
					Email:         email,
					FullName:      fullName,
					GoogleSubject: subject,
				}, nil
			},
		}
		google := &mockGoogleAuth{
			verifyFn: func(_ string) (*GoogleClaims, error) {
				return &GoogleClaims{Subject: "sub-1", Email: "g@example.com", Name: "G User"}, nil
			},
		}
		handler := NewAuthHandler(userSvc, google)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/google", `{"credential":"raw-id-token"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := dataObject(t, parseJSON(t, rec))
		if data["access_token"] == nil || data["access_token"] == "" {
			t.Error("expected non-empty access_token")
		}
	})

	t.Run("returns 401 on bad token", func(t *testing.T) {
		google := &mockGoogleAuth{
			verifyFn: func(_ string) (*GoogleClaims, error) {
				return nil, apperrors.ErrInvalidGoogleToken
			},
		}
		handler := NewAuthHandler(&mockUserService{}, google)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/google", `{"credential":"forged"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_GOOGLE_TOKEN")
	})

	t.Run("code sign-in exchanges then verifies", func(t *testing.T) {
		var exchanged, verified string
		google := &mockGoogleAuth{
			exchangeFn: func(code string) (string, error) {
				exchanged = code
				return "exchanged-id-token", nil
			},
			verifyFn: func(rawToken string) (*GoogleClaims, error) {
				verified = rawToken
				return &GoogleClaims{Subject: "sub-1", Email: "g@example.com"}, nil
			},
		}
		userSvc := &mockUserService{
			upsertGoogleUserFn: func(email, _, _, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
			},
		}
		handler := NewAuthHandler(userSvc, google)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/google-code", `{"code":"auth-code-1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if exchanged != "auth-code-1" {
			t.Errorf("expected code passed to exchange, got %q", exchanged)
		}
		if verified != "exchanged-id-token" {
			t.Errorf("expected exchanged token verified, got %q", verified)
		}
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("returns 401 on garbage token", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{"refresh_token":"not-a-jwt"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})

	t.Run("returns 401 when stored hash differs", func(t *testing.T) {
		user := &models.User{Base: models.Base{ID: testUserID}, Email: "test@example.com"}
		userSvc := &mockUserService{
			getUserByIDFn: func(_ string) (*models.User, error) { return user, nil },
			getRefreshTokenHashFn: func(_ string) (string, error) {
				return "some-other-hash", nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		// Issue a real refresh token, then present it against a mismatched
		// stored hash.
		tokens, err := handler.issueTokens(user)
		if err != nil {
			t.Fatalf("failed to issue tokens: %v", err)
		}
		rec := doRequest(r, "POST", "/auth/refresh",
			fmt.Sprintf(`{"refresh_token":%q}`, tokens.RefreshToken))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("clears the stored hash", func(t *testing.T) {
		var clearedFor, clearedTo string
		userSvc := &mockUserService{
			storeRefreshTokenHashFn: func(userID, hash string) error {
				clearedFor = userID
				clearedTo = hash
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockGoogleAuth{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/logout", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if clearedFor != testUserID || clearedTo != "" {
			t.Errorf("expected hash cleared for %s, got (%q, %q)", testUserID, clearedFor, clearedTo)
		}
	})
}
