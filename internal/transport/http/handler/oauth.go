package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

type oauthUsecaser interface {
	VerifyGoogleCredential(ctx context.Context, credential string) (string, *domain.User, error)
	StartGoogleLogin(ctx context.Context) (string, error)
	CompleteGoogleLogin(ctx context.Context, state, code string) (string, *domain.User, error)
}

type OAuthHandler struct {
	oauthUsecase oauthUsecaser
	frontendURL  string
	logger       *slog.Logger
}

// NewOAuthHandler redirects finished browser flows to frontendURL, which must
// not end in a slash.
func NewOAuthHandler(oauthUsecase oauthUsecaser, frontendURL string, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		oauthUsecase: oauthUsecase,
		frontendURL:  frontendURL,
		logger:       logger.With("component", "oauth_handler"),
	}
}

type googleVerifyRequest struct {
	Credential string `json:"credential" binding:"required"`
}

type signInResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// POST /auth/google/verify
func (h *OAuthHandler) VerifyGoogle(c *gin.Context) {
	var req googleVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signed, user, err := h.oauthUsecase.VerifyGoogleCredential(c.Request.Context(), req.Credential)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOAuthCredential) {
			metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodGoogleToken, metrics.OutcomeRejected).Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidGoogle})
			return
		}
		metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodGoogleToken, metrics.OutcomeError).Inc()
		h.logger.ErrorContext(c.Request.Context(), "verify google credential", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodGoogleToken, metrics.OutcomeSuccess).Inc()
	c.JSON(http.StatusOK, signInResponse{Token: signed, User: newUserResponse(user)})
}

// GET /auth/google
func (h *OAuthHandler) StartGoogle(c *gin.Context) {
	consentURL, err := h.oauthUsecase.StartGoogleLogin(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "start google login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Redirect(http.StatusFound, consentURL)
}

// GET /auth/google/callback?code=&state=
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodGoogleRedirect, metrics.OutcomeRejected).Inc()
		h.redirectLoginError(c, providerErr)
		return
	}

	signed, _, err := h.oauthUsecase.CompleteGoogleLogin(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOAuthStateInvalid):
			metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodGoogleRedirect, metrics.OutcomeRejected).Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errOAuthStateInvalid})
		case errors.Is(err, domain.ErrInvalidOAuthCredential):
			metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodGoogleRedirect, metrics.OutcomeRejected).Inc()
			h.redirectLoginError(c, "invalid_grant")
		default:
			metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodGoogleRedirect, metrics.OutcomeError).Inc()
			h.logger.ErrorContext(c.Request.Context(), "complete google login", "error", err)
			h.redirectLoginError(c, "server_error")
		}
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodGoogleRedirect, metrics.OutcomeSuccess).Inc()
	c.Redirect(http.StatusFound, h.frontendURL+"/events?"+url.Values{"token": {signed}}.Encode())
}

func (h *OAuthHandler) redirectLoginError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, h.frontendURL+"/login?"+url.Values{"error": {code}}.Encode())
}
