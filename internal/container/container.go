package container

import (
	"fmt"
	"net/http"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/claims"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/compliance"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/config"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/export"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/formats"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/layout"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/logger"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/matting"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/observer"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/ocr"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/repository"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/service"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/storage"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	registry        *formats.Registry
	lexicon         *claims.Lexicon
	imageFetcher    storage.ImageFetcher
	creativeService service.CreativeService
	workerPool      *service.WorkerPool
	handler         http.Handler
}

// NewContainer builds the dependency graph
func NewContainer(cfg *config.Config) (*Container, error) {
	fonts, err := layout.LoadFontSet(cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	registry := formats.DefaultRegistry()

	lexicon, err := loadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}

	compositor := layout.NewCompositor(fonts)
	exporter := export.NewEngine(fonts)
	validator := compliance.NewValidator(lexicon, exporter)

	imageFetcher := storage.NewHTTPImageFetcher(cfg.AssetFetchTimeout)
	assetRepo := repository.NewHTTPAssetRepository(imageFetcher)

	var artifacts storage.ArtifactStore
	if cfg.ArtifactUploadEnabled() {
		artifacts, err = storage.NewAzureArtifactStore(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.ArtifactContainer)
		if err != nil {
			return nil, fmt.Errorf("failed to configure artifact store: %w", err)
		}
	}

	events := observer.NewEventBus()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))

	pool := service.NewWorkerPool(0)
	pool.Start()

	creativeService := service.NewCreativeService(
		registry,
		assetRepo,
		compositor,
		validator,
		exporter,
		matting.NewThresholdMatter(),
		ocr.NewTesseractExtractor(cfg.OCRLanguages),
		artifacts,
		events,
		pool,
	)
	handler := transport.NewHandler(creativeService, imageFetcher, cfg)

	return &Container{
		config:          cfg,
		registry:        registry,
		lexicon:         lexicon,
		imageFetcher:    imageFetcher,
		creativeService: creativeService,
		workerPool:      pool,
		handler:         handler,
	}, nil
}

func loadLexicon(path string) (*claims.Lexicon, error) {
	if path == "" {
		return claims.DefaultLexicon(), nil
	}
	lexicon, err := claims.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load claim lexicon: %w", err)
	}
	return lexicon, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the creative pipeline service
func (c *Container) Service() service.CreativeService {
	return c.creativeService
}

// Close releases background resources
func (c *Container) Close() {
	c.workerPool.Close()
}
