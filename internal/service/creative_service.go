// Package service orchestrates the per-format creative pipeline:
// composition, validation, and size-budgeted export.
package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/compliance"
	apperrors "github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/errors"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/export"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/formats"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/layout"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/matting"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/observer"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/ocr"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/repository"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/storage"
)

// ComposeRequest describes one composition job. ByteBudget of zero uses the
// format's configured maximum.
type ComposeRequest struct {
	Assets           repository.AssetRefs
	Headline         string
	Price            string
	Claim            string
	FormatName       string
	ByteBudget       int
	RemoveBackground bool
}

// ComposeResult is the outcome of one per-format pipeline run.
type ComposeResult struct {
	JobID       string              `json:"job_id"`
	Format      string              `json:"format"`
	Export      *export.Result      `json:"export"`
	Verdict     *compliance.Verdict `json:"verdict"`
	ArtifactURL string              `json:"artifact_url,omitempty"`
}

// FormatOutcome pairs a format name with its result or error in a
// multi-format batch. Per-format failures never abort the batch.
type FormatOutcome struct {
	Format string         `json:"format"`
	Result *ComposeResult `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// ValidationResult is the standalone-image validation outcome, including
// what the OCR collaborator extracted.
type ValidationResult struct {
	Verdict       *compliance.Verdict `json:"verdict"`
	Extracted     []ocr.DetectedText  `json:"extracted,omitempty"`
	Prices        []ocr.Price         `json:"prices,omitempty"`
	Percentages   []ocr.Percentage    `json:"percentages,omitempty"`
	MatchScore    float64             `json:"match_score,omitempty"`
	WordErrorRate float64             `json:"word_error_rate,omitempty"`
}

// CreativeService is the exposed pipeline interface.
type CreativeService interface {
	ListFormats() []string
	ComposeAndExport(ctx context.Context, req ComposeRequest) (*ComposeResult, error)
	ComposeAndExportAssets(ctx context.Context, req ComposeRequest, assets *repository.AssetSet) (*ComposeResult, error)
	ExportAll(ctx context.Context, req ComposeRequest, formatNames []string) ([]FormatOutcome, error)
	ValidateImage(ctx context.Context, img image.Image, formatName, expectedText string) (*ValidationResult, error)
}

type creativeService struct {
	registry   *formats.Registry
	assetRepo  repository.AssetRepository
	compositor *layout.Compositor
	validator  *compliance.Validator
	exporter   *export.Engine
	matter     matting.Matter
	extractor  ocr.TextExtractor
	artifacts  storage.ArtifactStore // nil disables uploads
	events     observer.Subject
	pool       *WorkerPool
}

// NewCreativeService wires the pipeline. artifacts may be nil; events may be
// nil to disable lifecycle notifications.
func NewCreativeService(
	registry *formats.Registry,
	assetRepo repository.AssetRepository,
	compositor *layout.Compositor,
	validator *compliance.Validator,
	exporter *export.Engine,
	matter matting.Matter,
	extractor ocr.TextExtractor,
	artifacts storage.ArtifactStore,
	events observer.Subject,
	pool *WorkerPool,
) CreativeService {
	return &creativeService{
		registry:   registry,
		assetRepo:  assetRepo,
		compositor: compositor,
		validator:  validator,
		exporter:   exporter,
		matter:     matter,
		extractor:  extractor,
		artifacts:  artifacts,
		events:     events,
		pool:       pool,
	}
}

// ListFormats returns the supported format names in stable order.
func (s *creativeService) ListFormats() []string {
	return s.registry.List()
}

// ComposeAndExport fetches the referenced assets and runs the full pipeline
// for one format.
func (s *creativeService) ComposeAndExport(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
	if req.Assets.PackshotURL == "" {
		return nil, apperrors.NewMissingAssetError(string(layout.RolePackshot), nil)
	}
	assets, err := s.assetRepo.LoadAssets(ctx, req.Assets)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to load assets", err)
	}
	return s.ComposeAndExportAssets(ctx, req, assets)
}

// ComposeAndExportAssets runs the pipeline over already decoded assets:
// optional matting, composition, validation, budgeted export, optional
// artifact upload. Composition, validation, and export for one format are
// strictly sequential; parallelism only exists across formats.
func (s *creativeService) ComposeAndExportAssets(ctx context.Context, req ComposeRequest, assets *repository.AssetSet) (*ComposeResult, error) {
	start := time.Now()
	jobID := uuid.NewString()
	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.CompositionStarted, JobID: jobID, Format: req.FormatName, Success: true,
	})

	spec, err := s.registry.Lookup(req.FormatName)
	if err != nil {
		return nil, apperrors.NewUnknownFormatError(req.FormatName, err)
	}

	packshot := assets.Packshot
	if req.RemoveBackground && packshot != nil && s.matter != nil {
		matted, _, mattingErr := s.matter.RemoveBackground(ctx, packshot)
		if mattingErr != nil {
			// Recoverable: the original asset is used unaltered.
			s.notify(ctx, observer.PipelineEvent{
				EventType: observer.MattingFellBack, JobID: jobID, Format: req.FormatName,
				Success: false, ErrorMessage: mattingErr.Error(),
			})
		} else {
			packshot = matted
		}
	}

	plan, err := s.compositor.Compose(spec, layout.Input{
		Packshot:   packshot,
		Background: assets.Background,
		Logo:       assets.Logo,
		Headline:   req.Headline,
		Price:      req.Price,
		Claim:      req.Claim,
	})
	if err != nil {
		if errors.Is(err, layout.ErrMissingPackshot) {
			return nil, apperrors.NewMissingAssetError(string(layout.RolePackshot), err)
		}
		return nil, apperrors.NewProcessingError("composition failed", err)
	}
	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.CompositionCompleted, JobID: jobID, Format: req.FormatName, Success: true,
	})

	verdict := s.validator.ValidatePlan(ctx, plan)
	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.ValidationCompleted, JobID: jobID, Format: req.FormatName, Success: verdict.IsCompliant,
		Metadata: map[string]interface{}{"risk_level": verdict.RiskLevel.String()},
	})

	budget := req.ByteBudget
	if budget <= 0 {
		budget = spec.MaxOutputBytes
	}
	artifact, err := s.exporter.Export(plan, budget)
	if err != nil {
		s.notify(ctx, observer.PipelineEvent{
			EventType: observer.PipelineFailed, JobID: jobID, Format: req.FormatName,
			Success: false, ErrorMessage: err.Error(),
		})
		return nil, apperrors.NewProcessingError("export failed", err)
	}

	result := &ComposeResult{JobID: jobID, Format: req.FormatName, Export: artifact, Verdict: verdict}
	if s.artifacts != nil {
		name := fmt.Sprintf("%s/creative_%s.jpg", jobID, strings.ReplaceAll(req.FormatName, ":", "x"))
		url, uploadErr := s.artifacts.PutArtifact(ctx, name, artifact.Data)
		if uploadErr != nil {
			// The artifact bytes are still returned; upload is glue.
			s.notify(ctx, observer.PipelineEvent{
				EventType: observer.PipelineFailed, JobID: jobID, Format: req.FormatName,
				Success: false, ErrorMessage: uploadErr.Error(),
			})
		} else {
			result.ArtifactURL = url
		}
	}

	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.ExportCompleted, JobID: jobID, Format: req.FormatName,
		Duration: time.Since(start), Success: true,
		Metadata: map[string]interface{}{
			"size_bytes": artifact.SizeBytes,
			"quality":    artifact.Quality,
			"budget_met": artifact.BudgetMet,
		},
	})
	return result, nil
}

// ExportAll renders every requested format for one asset set. Formats are
// independent and run in parallel on the worker pool; each gets its own
// render plan and its failures are reported per format.
func (s *creativeService) ExportAll(ctx context.Context, req ComposeRequest, formatNames []string) ([]FormatOutcome, error) {
	if len(formatNames) == 0 {
		formatNames = s.registry.List()
	}
	if req.Assets.PackshotURL == "" {
		return nil, apperrors.NewMissingAssetError(string(layout.RolePackshot), nil)
	}
	assets, err := s.assetRepo.LoadAssets(ctx, req.Assets)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to load assets", err)
	}

	outcomes := make([]FormatOutcome, len(formatNames))
	var wg sync.WaitGroup
	for i, name := range formatNames {
		i, name := i, name
		wg.Add(1)
		run := func() {
			defer wg.Done()
			perFormat := req
			perFormat.FormatName = name
			result, err := s.ComposeAndExportAssets(ctx, perFormat, assets)
			if err != nil {
				outcomes[i] = FormatOutcome{Format: name, Error: err.Error()}
				return
			}
			outcomes[i] = FormatOutcome{Format: name, Result: result}
		}
		if s.pool != nil {
			s.pool.Submit(run)
		} else {
			go run()
		}
	}
	wg.Wait()
	return outcomes, nil
}

// ValidateImage validates an externally rendered creative: the OCR
// collaborator supplies text regions, and parsed prices feed the claim
// check. An empty OCR result is valid.
func (s *creativeService) ValidateImage(ctx context.Context, img image.Image, formatName, expectedText string) (*ValidationResult, error) {
	spec, err := s.registry.Lookup(formatName)
	if err != nil {
		return nil, apperrors.NewUnknownFormatError(formatName, err)
	}

	detected, err := s.extractor.ExtractText(ctx, img)
	if err != nil {
		return nil, apperrors.NewProcessingError("text extraction failed", err)
	}

	regions := make([]compliance.TextRegion, 0, len(detected))
	for _, d := range detected {
		regions = append(regions, compliance.TextRegion{Text: d.Text, Rect: d.Box, Confidence: d.Confidence})
	}

	fullText := ocr.JoinText(detected)
	parsedPrices := ocr.ParsePrices(fullText)
	prices := make([]compliance.PriceFinding, 0, len(parsedPrices))
	for _, p := range parsedPrices {
		prices = append(prices, compliance.PriceFinding{Value: p.Value, Raw: p.Raw})
	}

	verdict := s.validator.ValidateImage(ctx, img, spec, regions, prices)
	result := &ValidationResult{
		Verdict:     verdict,
		Extracted:   detected,
		Prices:      parsedPrices,
		Percentages: ocr.ParsePercentages(fullText),
	}
	if expectedText != "" {
		result.MatchScore = ocr.MatchScore(expectedText, fullText)
		result.WordErrorRate = ocr.WordErrorRate(expectedText, fullText)
	}
	return result, nil
}

func (s *creativeService) notify(ctx context.Context, event observer.PipelineEvent) {
	if s.events == nil {
		return
	}
	s.events.NotifyObservers(ctx, event)
}
