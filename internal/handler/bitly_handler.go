package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bitly-client/internal/domain"
	"bitly-client/internal/service"
	"bitly-client/pkg/bitly"
	"bitly-client/pkg/logger"
)

// BitlyHandler exposes the bit.ly client operations as a JSON API.
// This is the dynamically typed boundary: JSON shapes are checked here
// at runtime before anything reaches the statically typed client.
type BitlyHandler struct {
	service service.ShortenerService
	logger  *logger.Logger
}

// NewBitlyHandler creates a new handler with dependencies
func NewBitlyHandler(service service.ShortenerService, logger *logger.Logger) *BitlyHandler {
	return &BitlyHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts all operation routes under the given group
func (h *BitlyHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/shorten", h.Shorten)
	v1.POST("/expand", h.Expand)
	v1.GET("/validate", h.Validate)
	v1.POST("/clicks", h.Clicks)
	v1.GET("/referrers", h.Referrers)
	v1.GET("/countries", h.Countries)
	v1.POST("/clicks_by_minute", h.ClicksByMinute)
	v1.GET("/pro_domain", h.ProDomain)
	v1.POST("/lookup", h.Lookup)
	v1.POST("/authenticate", h.Authenticate)
	v1.POST("/info", h.Info)
}

// Shorten handles POST /api/v1/shorten
func (h *BitlyHandler) Shorten(c *gin.Context) {
	var req domain.ShortenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	result, err := h.service.Shorten(c.Request.Context(), req.URL, req.Domain)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Expand handles POST /api/v1/expand
func (h *BitlyHandler) Expand(c *gin.Context) {
	shortURLs, hashes, ok := h.bindTargets(c)
	if !ok {
		return
	}

	entries, err := h.service.Expand(c.Request.Context(), shortURLs, hashes)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expand": emptyIfNil(entries)})
}

// Validate handles GET /api/v1/validate?login=...&key=...
func (h *BitlyHandler) Validate(c *gin.Context) {
	login := c.Query("login")
	key := c.Query("key")

	if login == "" || key == "" {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "login and key query parameters are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	valid, err := h.service.Validate(c.Request.Context(), login, key)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// Clicks handles POST /api/v1/clicks
func (h *BitlyHandler) Clicks(c *gin.Context) {
	shortURLs, hashes, ok := h.bindTargets(c)
	if !ok {
		return
	}

	stats, err := h.service.Clicks(c.Request.Context(), shortURLs, hashes)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clicks": emptyIfNil(stats)})
}

// Referrers handles GET /api/v1/referrers?short_url=...|hash=...
func (h *BitlyHandler) Referrers(c *gin.Context) {
	stats, err := h.service.Referrers(c.Request.Context(), c.Query("short_url"), c.Query("hash"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	if stats == nil {
		// Neither target supplied: empty result, mirrors the client
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Countries handles GET /api/v1/countries?short_url=...|hash=...
func (h *BitlyHandler) Countries(c *gin.Context) {
	stats, err := h.service.Countries(c.Request.Context(), c.Query("short_url"), c.Query("hash"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	if stats == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ClicksByMinute handles POST /api/v1/clicks_by_minute
func (h *BitlyHandler) ClicksByMinute(c *gin.Context) {
	shortURLs, hashes, ok := h.bindTargets(c)
	if !ok {
		return
	}

	series, err := h.service.ClicksByMinute(c.Request.Context(), shortURLs, hashes)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clicks_by_minute": emptyIfNil(series)})
}

// ProDomain handles GET /api/v1/pro_domain?domain=...
func (h *BitlyHandler) ProDomain(c *gin.Context) {
	domainName := c.Query("domain")
	if domainName == "" {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "domain query parameter is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	pro, err := h.service.ProDomain(c.Request.Context(), domainName)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"domain": domainName, "bitly_pro_domain": pro})
}

// Lookup handles POST /api/v1/lookup
func (h *BitlyHandler) Lookup(c *gin.Context) {
	var req domain.LookupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	urls, err := domain.StringList("urls", req.URLs)
	if err != nil {
		h.handleError(c, err)
		return
	}

	entries, err := h.service.Lookup(c.Request.Context(), urls)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lookup": emptyIfNil(entries)})
}

// Authenticate handles POST /api/v1/authenticate
func (h *BitlyHandler) Authenticate(c *gin.Context) {
	var req domain.AuthenticateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	result, err := h.service.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Info handles POST /api/v1/info
func (h *BitlyHandler) Info(c *gin.Context) {
	shortURLs, hashes, ok := h.bindTargets(c)
	if !ok {
		return
	}

	entries, err := h.service.Info(c.Request.Context(), shortURLs, hashes)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"info": emptyIfNil(entries)})
}

// Health handles GET /health
func (h *BitlyHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:    "healthy",
		Service:   "bitly-client",
		Version:   "1.0.0",
		Timestamp: time.Now().UTC(),
	})
}

// bindTargets decodes and type-checks a MultiTargetRequest body.
// On failure it writes the error response and returns ok=false.
func (h *BitlyHandler) bindTargets(c *gin.Context) (shortURLs, hashes []string, ok bool) {
	var req domain.MultiTargetRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return nil, nil, false
	}

	shortURLs, hashes, err := req.Targets()
	if err != nil {
		h.handleError(c, err)
		return nil, nil, false
	}

	return shortURLs, hashes, true
}

// handleError maps client and domain errors to HTTP responses
func (h *BitlyHandler) handleError(c *gin.Context, err error) {
	var (
		appErr     *domain.AppError
		apiErr     *bitly.APIError
		argErr     *bitly.ArgumentError
		argTypeErr *bitly.ArgTypeError
	)

	switch {
	case errors.As(err, &argTypeErr):
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "argument_type_error",
			Message: argTypeErr.Error(),
			Code:    http.StatusBadRequest,
		})

	case errors.As(err, &argErr):
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "argument_error",
			Message: argErr.Error(),
			Code:    http.StatusBadRequest,
		})

	case errors.As(err, &apiErr):
		// The remote service rejected the call; relay code and text
		h.logger.Warn("Remote API error", "code", apiErr.Code, "text", apiErr.Text)
		c.JSON(http.StatusBadGateway, domain.ErrorResponse{
			Error:   "api_error",
			Message: apiErr.Error(),
			Code:    http.StatusBadGateway,
		})

	case errors.As(err, &appErr):
		if appErr.Internal {
			h.logger.Error("Internal server error", "error", appErr.Err)
			c.JSON(appErr.StatusCode, domain.ErrorResponse{
				Error:   "internal_error",
				Message: "An internal error occurred",
				Code:    appErr.StatusCode,
			})
		} else {
			c.JSON(appErr.StatusCode, domain.ErrorResponse{
				Error:   "client_error",
				Message: appErr.Message,
				Code:    appErr.StatusCode,
			})
		}

	default:
		// Transport or decode failure talking to the remote service
		h.logger.Error("Upstream call failed", "error", err)
		c.JSON(http.StatusBadGateway, domain.ErrorResponse{
			Error:   "upstream_unreachable",
			Message: "Failed to reach the URL shortening service",
			Code:    http.StatusBadGateway,
		})
	}
}

// emptyIfNil keeps JSON list fields as [] instead of null
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
