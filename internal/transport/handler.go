package transport

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/config"
	apperrors "github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/errors"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/logger"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/repository"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/service"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/storage"
)

// ComposeRequestBody is the wire form of a composition request. Formats may
// list several names; empty means every registered format.
type ComposeRequestBody struct {
	PackshotURL      string   `json:"packshot_url" binding:"required,url"`
	BackgroundURL    string   `json:"background_url,omitempty"`
	LogoURL          string   `json:"logo_url,omitempty"`
	Headline         string   `json:"headline,omitempty"`
	Price            string   `json:"price,omitempty"`
	Claim            string   `json:"claim,omitempty"`
	Formats          []string `json:"formats,omitempty"`
	ByteBudget       int      `json:"byte_budget,omitempty"`
	RemoveBackground bool     `json:"remove_background,omitempty"`
}

// ComposeResponseBody carries the per-format outcomes; artifact bytes travel
// base64-encoded.
type ComposeResponseBody struct {
	Outcomes []FormatOutcomeBody `json:"outcomes"`
}

type FormatOutcomeBody struct {
	Format      string      `json:"format"`
	Error       string      `json:"error,omitempty"`
	JobID       string      `json:"job_id,omitempty"`
	Verdict     interface{} `json:"verdict,omitempty"`
	ArtifactURL string      `json:"artifact_url,omitempty"`
	SizeBytes   int         `json:"size_bytes,omitempty"`
	Quality     int         `json:"quality,omitempty"`
	BudgetMet   bool        `json:"budget_met,omitempty"`
	ImageBase64 string      `json:"image_base64,omitempty"`
}

// ValidateRequestBody asks for a compliance verdict over an already rendered
// creative.
type ValidateRequestBody struct {
	URL          string `json:"url" binding:"required,url"`
	Format       string `json:"format" binding:"required"`
	ExpectedText string `json:"expected_text,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the HTTP surface over the creative service.
func NewHandler(svc service.CreativeService, fetcher storage.ImageFetcher, cfg *config.Config) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/formats", listFormats(svc))
	r.POST("/compose", composeCreative(svc, cfg))
	r.POST("/validate", validateCreative(svc, fetcher, cfg))

	return r
}

func listFormats(svc service.CreativeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"formats": svc.ListFormats()})
	}
}

func composeCreative(svc service.CreativeService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing composition request")

		var req ComposeRequestBody
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		outcomes, err := svc.ExportAll(ctx, service.ComposeRequest{
			Assets: repository.AssetRefs{
				PackshotURL:   req.PackshotURL,
				BackgroundURL: req.BackgroundURL,
				LogoURL:       req.LogoURL,
			},
			Headline:         req.Headline,
			Price:            req.Price,
			Claim:            req.Claim,
			ByteBudget:       req.ByteBudget,
			RemoveBackground: req.RemoveBackground,
		}, req.Formats)
		if err != nil {
			statusCode := determineStatusCode(err)
			logger.WithError(err).WithFields(logrus.Fields{
				"packshot_url": req.PackshotURL,
				"ip":           c.ClientIP(),
			}).Error("Composition failed")
			respondError(c, statusCode, "composition failed", err)
			return
		}

		resp := ComposeResponseBody{Outcomes: make([]FormatOutcomeBody, 0, len(outcomes))}
		for _, o := range outcomes {
			body := FormatOutcomeBody{Format: o.Format, Error: o.Error}
			if o.Result != nil {
				body.JobID = o.Result.JobID
				body.Verdict = o.Result.Verdict
				body.ArtifactURL = o.Result.ArtifactURL
				body.SizeBytes = o.Result.Export.SizeBytes
				body.Quality = o.Result.Export.Quality
				body.BudgetMet = o.Result.Export.BudgetMet
				body.ImageBase64 = base64.StdEncoding.EncodeToString(o.Result.Export.Data)
			}
			resp.Outcomes = append(resp.Outcomes, body)
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"packshot_url":       req.PackshotURL,
			"formats":            len(resp.Outcomes),
			"processing_time_ms": duration.Milliseconds(),
		}).Info("Composition completed successfully")

		c.JSON(http.StatusOK, resp)
	}
}

func validateCreative(svc service.CreativeService, f storage.ImageFetcher, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing validation request")

		var req ValidateRequestBody
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		img, err := f.FetchImage(ctx, req.URL)
		if err != nil {
			var fetchErr *apperrors.AppError
			if errors.Is(err, context.DeadlineExceeded) {
				fetchErr = apperrors.NewTimeoutError("Image fetch timeout", err)
			} else {
				fetchErr = apperrors.NewNetworkError("Failed to fetch image", err)
			}

			logger.WithError(fetchErr).WithFields(logrus.Fields{
				"url": req.URL,
				"ip":  c.ClientIP(),
			}).Error("Failed to fetch image")

			respondError(c, fetchErr.StatusCode, "failed to fetch image", fetchErr)
			return
		}

		result, err := svc.ValidateImage(ctx, img, req.Format, req.ExpectedText)
		if err != nil {
			statusCode := determineStatusCode(err)
			logger.WithError(err).WithFields(logrus.Fields{
				"url":    req.URL,
				"format": req.Format,
				"ip":     c.ClientIP(),
			}).Error("Validation failed")
			respondError(c, statusCode, "validation failed", err)
			return
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"url":                req.URL,
			"format":             req.Format,
			"is_compliant":       result.Verdict.IsCompliant,
			"processing_time_ms": duration.Milliseconds(),
		}).Info("Validation completed successfully")

		c.JSON(http.StatusOK, result)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
