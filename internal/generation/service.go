package generation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"quickai-backend/internal/creations"
	"quickai-backend/internal/entitlement"
	"quickai-backend/internal/extract"
	"quickai-backend/internal/imagegen"
	"quickai-backend/internal/llm"
	"quickai-backend/internal/shared/metrics"
	"quickai-backend/internal/shared/storage/object"
	"quickai-backend/internal/shared/telemetry"
)

const (
	maxResumeBytes = 5 << 20

	defaultArticleTokens = 800
	maxArticleTokens     = 4000
	blogTitleTokens      = 100
	resumeReviewTokens   = 1000
	codeFixTokens        = 2000

	textTemperature    = 0.7
	codeFixTemperature = 0.3

	defaultBackendTimeout = 30 * time.Second
)

// EntitlementResolver is the slice of the entitlement package the
// pipeline needs.
type EntitlementResolver interface {
	Resolve(ctx context.Context, userID, planClaim string) (entitlement.Entitlement, error)
	Increment(ctx context.Context, userID string) error
}

// Service is the generation pipeline. One entry point serves the whole
// closed operation set; every invocation runs the same ordered steps:
// validate, resolve entitlement, admission check, backend call, persist,
// charge. A rejected request never reaches the backend and a failed
// persist never charges quota.
type Service struct {
	Entitlements EntitlementResolver
	LLM          llm.Client
	Images       imagegen.Backend
	Objects      object.ObjectStore
	Ledger       creations.Repo

	// BackendTimeout bounds each backend call. Zero means the default.
	BackendTimeout time.Duration
}

type inputError struct{ msg string }

func (e inputError) Error() string { return e.msg }
func (e inputError) Unwrap() error { return ErrInvalidInput }

func invalidInput(msg string) error { return inputError{msg: msg} }

// Generate runs one pipeline invocation.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	policy, ok := policyFor(req.Operation)
	if !ok {
		return Result{}, invalidInput("Unknown operation.")
	}

	if err := validatePayload(req.Operation, req.Payload); err != nil {
		return Result{}, err
	}

	ent, err := s.Entitlements.Resolve(ctx, req.UserID, req.PlanClaim)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrAuthenticationRequired, err)
	}

	if !ent.IsPremium() {
		if policy.PremiumOnly {
			metrics.IncGenerationRejected()
			return Result{}, ErrPremiumRequired
		}
		if ent.Used >= policy.FreeCeiling {
			metrics.IncGenerationRejected()
			return Result{}, ErrQuotaExceeded
		}
	}

	metrics.IncGenerationStarted()
	start := time.Now()

	result, creation, err := s.run(ctx, req)
	if err != nil {
		metrics.IncGenerationFailed()
		return Result{}, err
	}

	creation.ID = uuid.NewString()
	creation.UserID = ent.UserID
	now := time.Now().UTC()
	creation.CreatedAt = now
	creation.UpdatedAt = now

	if err := s.Ledger.Create(ctx, creation); err != nil {
		// Quota stays untouched when persistence fails.
		metrics.IncGenerationFailed()
		return Result{}, fmt.Errorf("persist creation: %w", err)
	}

	if !ent.IsPremium() {
		if err := s.Entitlements.Increment(ctx, ent.UserID); err != nil {
			telemetry.Warn("generation.increment_failed", map[string]any{
				"user_id":   ent.UserID,
				"operation": string(req.Operation),
				"error":     err.Error(),
			})
		}
	}

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(float64(time.Since(start).Milliseconds()))
	telemetry.Info("generation.completed", map[string]any{
		"user_id":     ent.UserID,
		"operation":   string(req.Operation),
		"creation_id": creation.ID,
		"tier":        string(ent.Tier),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return result, nil
}

// run performs the backend call and shapes the ledger row. It never
// touches quota.
func (s *Service) run(ctx context.Context, req Request) (Result, creations.Creation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	switch req.Operation {
	case OpArticle:
		return s.runText(ctx, req, creations.TypeArticle, req.Payload.Prompt, articleTokens(req.Payload.MaxTokens))
	case OpBlogTitle:
		return s.runText(ctx, req, creations.TypeBlogTitle, req.Payload.Prompt, blogTitleTokens)
	case OpImage:
		return s.runImage(ctx, req)
	case OpRemoveBackground:
		return s.runRemoveBackground(ctx, req)
	case OpRemoveObject:
		return s.runRemoveObject(ctx, req)
	case OpResumeReview:
		return s.runResumeReview(ctx, req)
	case OpCodeFix:
		return s.runCodeFix(ctx, req)
	default:
		return Result{}, creations.Creation{}, invalidInput("Unknown operation.")
	}
}

func (s *Service) runText(ctx context.Context, req Request, creationType, prompt string, maxTokens int) (Result, creations.Creation, error) {
	content, err := s.LLM.Complete(ctx, llm.CompleteInput{
		Prompt:      prompt,
		Temperature: textTemperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return Result{}, creations.Creation{}, backendErr(err)
	}

	return Result{Content: content}, creations.Creation{
		Prompt:  prompt,
		Content: content,
		Type:    creationType,
	}, nil
}

func (s *Service) runImage(ctx context.Context, req Request) (Result, creations.Creation, error) {
	data, err := s.Images.Generate(ctx, req.Payload.Prompt)
	if err != nil {
		return Result{}, creations.Creation{}, backendErr(err)
	}

	url, err := s.storeImage(ctx, req.UserID, data)
	if err != nil {
		return Result{}, creations.Creation{}, err
	}

	return Result{Content: url}, creations.Creation{
		Prompt:  req.Payload.Prompt,
		Content: url,
		Type:    creations.TypeImage,
		Publish: req.Payload.Publish,
	}, nil
}

func (s *Service) runRemoveBackground(ctx context.Context, req Request) (Result, creations.Creation, error) {
	normalized, err := imagegen.NormalizePNG(req.Payload.Image)
	if err != nil {
		return Result{}, creations.Creation{}, invalidInput("Uploaded file is not a valid image.")
	}

	data, err := s.Images.RemoveBackground(ctx, normalized)
	if err != nil {
		return Result{}, creations.Creation{}, backendErr(err)
	}

	url, err := s.storeImage(ctx, req.UserID, data)
	if err != nil {
		return Result{}, creations.Creation{}, err
	}

	return Result{Content: url}, creations.Creation{
		Prompt:  labelRemoveBackground,
		Content: url,
		Type:    creations.TypeImage,
	}, nil
}

func (s *Service) runRemoveObject(ctx context.Context, req Request) (Result, creations.Creation, error) {
	normalized, err := imagegen.NormalizePNG(req.Payload.Image)
	if err != nil {
		return Result{}, creations.Creation{}, invalidInput("Uploaded file is not a valid image.")
	}

	objectName := strings.TrimSpace(req.Payload.ObjectName)
	data, err := s.Images.RemoveObject(ctx, normalized, objectName)
	if err != nil {
		return Result{}, creations.Creation{}, backendErr(err)
	}

	url, err := s.storeImage(ctx, req.UserID, data)
	if err != nil {
		return Result{}, creations.Creation{}, err
	}

	return Result{Content: url}, creations.Creation{
		Prompt:  labelRemoveObject(objectName),
		Content: url,
		Type:    creations.TypeImage,
	}, nil
}

func (s *Service) runResumeReview(ctx context.Context, req Request) (Result, creations.Creation, error) {
	text, err := extract.ResumeText(ctx, req.Payload.File, req.Payload.FileMime, req.Payload.FileName)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			return Result{}, creations.Creation{}, invalidInput("Resume must be a PDF or DOCX file.")
		}
		return Result{}, creations.Creation{}, invalidInput("Unable to read the uploaded resume.")
	}

	content, err := s.LLM.Complete(ctx, llm.CompleteInput{
		Prompt:      resumeReviewPrompt(text),
		Temperature: textTemperature,
		MaxTokens:   resumeReviewTokens,
	})
	if err != nil {
		return Result{}, creations.Creation{}, backendErr(err)
	}

	return Result{Content: content}, creations.Creation{
		Prompt:  labelResumeReview,
		Content: content,
		Type:    creations.TypeResumeReview,
	}, nil
}

func (s *Service) runCodeFix(ctx context.Context, req Request) (Result, creations.Creation, error) {
	code := req.Payload.Code
	language := req.Payload.Language

	raw, err := s.LLM.Complete(ctx, llm.CompleteInput{
		Prompt:      codeFixPrompt(language, code),
		Temperature: codeFixTemperature,
		MaxTokens:   codeFixTokens,
	})
	if err != nil {
		return Result{}, creations.Creation{}, backendErr(err)
	}

	review := ExtractCodeReview(raw, code)
	score := review.QualityScore

	issues := make([]creations.Issue, 0, len(review.Issues))
	for _, issue := range review.Issues {
		issues = append(issues, creations.Issue(issue))
	}

	return Result{Content: review.FixedCode, Review: &review}, creations.Creation{
		Prompt:       labelCodeFix(language),
		Content:      review.FixedCode,
		Type:         creations.TypeCodeFix,
		Language:     language,
		Explanation:  review.Explanation,
		QualityScore: &score,
		OriginalCode: code,
		IssuesFound:  issues,
	}, nil
}

func (s *Service) storeImage(ctx context.Context, userID string, data []byte) (string, error) {
	key, _, _, err := s.Objects.Save(ctx, userID, "generated.png", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return s.Objects.URL(key), nil
}

func (s *Service) timeout() time.Duration {
	if s.BackendTimeout > 0 {
		return s.BackendTimeout
	}
	return defaultBackendTimeout
}

func validatePayload(op Operation, p Payload) error {
	switch op {
	case OpArticle, OpBlogTitle, OpImage:
		if strings.TrimSpace(p.Prompt) == "" {
			return invalidInput("Prompt is required.")
		}
	case OpRemoveBackground:
		if len(p.Image) == 0 {
			return invalidInput("Image is required.")
		}
	case OpRemoveObject:
		if len(p.Image) == 0 {
			return invalidInput("Image is required.")
		}
		name := strings.TrimSpace(p.ObjectName)
		if name == "" {
			return invalidInput("Object name is required.")
		}
		if len(strings.Fields(name)) != 1 {
			return invalidInput("Object name must be a single word.")
		}
	case OpResumeReview:
		if len(p.File) == 0 {
			return invalidInput("Resume file is required.")
		}
		if len(p.File) > maxResumeBytes {
			return ErrPayloadTooLarge
		}
	case OpCodeFix:
		if strings.TrimSpace(p.Code) == "" {
			return invalidInput("Code is required.")
		}
		if strings.TrimSpace(p.Language) == "" {
			return invalidInput("Programming language is required.")
		}
	}
	return nil
}

func articleTokens(requested int) int {
	if requested <= 0 {
		return defaultArticleTokens
	}
	if requested > maxArticleTokens {
		return maxArticleTokens
	}
	return requested
}

func backendErr(err error) error {
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
