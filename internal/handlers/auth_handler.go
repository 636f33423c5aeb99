package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"paisabook/internal/config"
	apperrors "paisabook/internal/errors"
	"paisabook/internal/middleware"
	"paisabook/internal/models"
	"paisabook/internal/services"
)

// GoogleClaims is the identity extracted from a verified Google ID token.
type GoogleClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleAuthenticator verifies Google credentials. VerifyIDToken checks a
// raw ID token; ExchangeCode trades an authorization code for an ID token
// first.
type GoogleAuthenticator interface {
	VerifyIDToken(ctx context.Context, rawToken string) (*GoogleClaims, error)
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// googleAuthenticator is the production GoogleAuthenticator backed by
// Google's token endpoints.
type googleAuthenticator struct {
	clientID     string
	clientSecret string
	redirectURL  string
}

// NewGoogleAuthenticator creates a GoogleAuthenticator from the Google
// OAuth settings in the config.
func NewGoogleAuthenticator(cfg *config.Config) GoogleAuthenticator {
	return &googleAuthenticator{
		clientID:     cfg.GoogleClientID,
		clientSecret: cfg.GoogleClientSecret,
		redirectURL:  cfg.GoogleRedirectURL,
	}
}

func (g *googleAuthenticator) VerifyIDToken(ctx context.Context, rawToken string) (*GoogleClaims, error) {
	payload, err := idtoken.Validate(ctx, rawToken, g.clientID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidGoogleToken, err)
	}

	claims := &GoogleClaims{Subject: payload.Subject}
	if v, ok := payload.Claims["email"].(string); ok {
		claims.Email = v
	}
	if v, ok := payload.Claims["name"].(string); ok {
		claims.Name = v
	}
	if v, ok := payload.Claims["picture"].(string); ok {
		claims.Picture = v
	}
	if claims.Email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidGoogleToken, "Google token has no email claim")
	}
	return claims, nil
}

func (g *googleAuthenticator) ExchangeCode(ctx context.Context, code string) (string, error) {
	conf := &oauth2.Config{
		ClientID:     g.clientID,
		ClientSecret: g.clientSecret,
		RedirectURL:  g.redirectURL,
		Endpoint:     google.Endpoint,
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidGoogleToken, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidGoogleToken, "token response has no id_token")
	}
	return rawIDToken, nil
}

// AuthHandler handles registration, login, token refresh and Google sign-in.
type AuthHandler struct {
	userService services.UserServicer
	google      GoogleAuthenticator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, google GoogleAuthenticator) *AuthHandler {
	return &AuthHandler{userService: userService, google: google}
}

// RegisterRequest represents the request payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"max=100"`
}

// LoginRequest represents the request payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request payload for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// GoogleTokenRequest carries the ID token from Google Identity Services.
type GoogleTokenRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// GoogleCodeRequest carries an OAuth authorization code.
type GoogleCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// TokenResponse represents issued tokens in the response.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// issueTokens generates an access/refresh pair and stores the refresh hash.
func (h *AuthHandler) issueTokens(user *models.User) (*TokenResponse, error) {
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refreshToken)); err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// Register handles user registration
// @Summary     Register a new user
// @Description Create a local account and return an access/refresh token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Registration details"
// @Success     201 {object} TokenResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.FullName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, tokens)
}

// Login handles user login
// @Summary     Log in
// @Description Verify email/password and return an access/refresh token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} TokenResponse "Logged in"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.GetUserByEmail(req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}
	if !h.userService.VerifyPassword(user, req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, tokens)
}

// Refresh handles access token refresh
// @Summary     Refresh tokens
// @Description Rotate the refresh token and return a new token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} TokenResponse "Tokens rotated"
// @Failure     401 {object} ErrorResponse "Invalid refresh token"
// @Router      /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	storedHash, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil || storedHash == "" || storedHash != middleware.HashToken(req.RefreshToken) {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, tokens)
}

// googleSignIn verifies claims and issues tokens for the matched user.
func (h *AuthHandler) googleSignIn(c *gin.Context, claims *GoogleClaims) {
	user, err := h.userService.UpsertGoogleUser(claims.Email, claims.Name, claims.Subject, claims.Picture)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, tokens)
}

// GoogleToken handles sign-in with a Google ID token
// @Summary     Sign in with a Google ID token
// @Description Verify a Google Identity Services credential and return a token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body GoogleTokenRequest true "Google ID token"
// @Success     200 {object} TokenResponse "Signed in"
// @Failure     401 {object} ErrorResponse "Token verification failed"
// @Router      /auth/google [post]
func (h *AuthHandler) GoogleToken(c *gin.Context) {
	var req GoogleTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	claims, err := h.google.VerifyIDToken(c.Request.Context(), req.Credential)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.googleSignIn(c, claims)
}

// GoogleCode handles sign-in with an OAuth authorization code
// @Summary     Sign in with a Google authorization code
// @Description Exchange an OAuth code for an ID token, verify it and return a token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body GoogleCodeRequest true "Authorization code"
// @Success     200 {object} TokenResponse "Signed in"
// @Failure     401 {object} ErrorResponse "Code exchange or verification failed"
// @Router      /auth/google-code [post]
func (h *AuthHandler) GoogleCode(c *gin.Context) {
	var req GoogleCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rawIDToken, err := h.google.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		respondWithError(c, err)
		return
	}

	claims, err := h.google.VerifyIDToken(c.Request.Context(), rawIDToken)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.googleSignIn(c, claims)
}

// Me returns the authenticated user
// @Summary     Current user
// @Description Return the authenticated user's record
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User "Current user"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, user)
}

// Logout invalidates the stored refresh token
// @Summary     Log out
// @Description Clear the stored refresh token hash so refresh stops working
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Logged out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.StoreRefreshTokenHash(userID, ""); err != nil {
		respondWithError(c, err)
		return
	}
	respondMessage(c, "Logged out")
}
