package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tratativas/internal/config"
	"tratativas/internal/model"
	"tratativas/internal/pdf"
	"tratativas/internal/render"
	"tratativas/internal/repository"
	"tratativas/internal/staging"
	"tratativas/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNumeroRequired   = errors.New("numero is required")
	ErrNotFound         = errors.New("tratativa not found")
	ErrAlreadyPublished = errors.New("tratativa already has a published document")
	ErrRunInFlight      = errors.New("a document run is already in flight for this tratativa")
)

// ValidationError reports the required fields missing from one page,
// verbatim and in required-list order, before any external call is made.
type ValidationError struct {
	Page    int
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("folha %d missing required fields: [%s]", e.Page, strings.Join(e.Missing, ", "))
}

// TratativaListResult is the service-level DTO for paginated tratativas.
type TratativaListResult struct {
	Items []model.Tratativa `json:"data"`
	Total int               `json:"total"`
}

// TratativaService defines the use cases for handling disciplinary cases.
type TratativaService interface {
	// Create registers a new tratativa (intake; the document is generated separately).
	Create(ctx context.Context, t *model.Tratativa) (*model.Tratativa, error)

	// List returns tratativas using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*TratativaListResult, error)

	// ListPending returns tratativas that have no published document yet.
	ListPending(ctx context.Context, limit, offset int) (*TratativaListResult, error)

	// Get returns a single tratativa by its ID.
	Get(ctx context.Context, id string) (*model.Tratativa, error)

	// GenerateDocument runs the two-page render/merge/publish pipeline for
	// a record and returns the published document URL.
	GenerateDocument(ctx context.Context, id string) (string, error)
}

// mergeFunc matches pdf.MergePages; held as a field so the merge step
// can be replaced in tests.
type mergeFunc func(page1, page2, out string) error

// tratativaService is a concrete implementation of TratativaService.
type tratativaService struct {
	repo     repository.TratativaRepository
	store    storage.Storage
	renderer render.Renderer
	stage    *staging.Stage
	render   config.RenderConfig
	log      *slog.Logger
	merge    mergeFunc

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewTratativaService constructs a new TratativaService.
func NewTratativaService(
	repo repository.TratativaRepository,
	store storage.Storage,
	renderer render.Renderer,
	stage *staging.Stage,
	renderCfg config.RenderConfig,
	log *slog.Logger,
) TratativaService {
	return &tratativaService{
		repo:     repo,
		store:    store,
		renderer: renderer,
		stage:    stage,
		render:   renderCfg,
		log:      log,
		merge:    pdf.MergePages,
		inFlight: make(map[string]struct{}),
	}
}

func (s *tratativaService) Create(ctx context.Context, t *model.Tratativa) (*model.Tratativa, error) {
	if t == nil {
		return nil, errors.New("tratativa is nil")
	}
	if strings.TrimSpace(t.Numero) == "" {
		return nil, ErrNumeroRequired
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	stored, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create tratativa: %w", err)
	}
	return stored, nil
}

// List returns paginated tratativas without exposing repository types.
func (s *tratativaService) List(ctx context.Context, limit, offset int) (*TratativaListResult, error) {
	res, err := s.repo.List(ctx, clampPage(limit, offset))
	if err != nil {
		return nil, err
	}
	return &TratativaListResult{Items: res.Items, Total: res.Total}, nil
}

// ListPending returns the tratativas still waiting for a document.
func (s *tratativaService) ListPending(ctx context.Context, limit, offset int) (*TratativaListResult, error) {
	res, err := s.repo.ListPending(ctx, clampPage(limit, offset))
	if err != nil {
		return nil, err
	}
	return &TratativaListResult{Items: res.Items, Total: res.Total}, nil
}

func clampPage(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

// Get returns a tratativa by ID.
func (s *tratativaService) Get(ctx context.Context, id string) (*model.Tratativa, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// GenerateDocument executes one pipeline run:
// validate both pages, render both pages (concurrently), stage the two
// single-page PDFs, merge folha 1 before folha 2, publish the merged
// document, and record its URL. Staged files of the run are removed
// afterwards whether the run succeeded or failed.
func (s *tratativaService) GenerateDocument(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	if !s.acquire(id) {
		return "", ErrRunInFlight
	}
	defer s.release(id)

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("load tratativa: %w", err)
	}
	if t.Published() {
		return "", ErrAlreadyPublished
	}

	log := s.log.With("tratativaId", t.ID, "numero", t.Numero)

	fields1 := pdf.MapPage1(t)
	fields2, err := pdf.MapPage2(t)
	if errors.Is(err, pdf.ErrOutcomeUnknown) {
		// Not fatal at this stage, but operators must see it.
		log.Warn("outcome markers left blank", "codigoMedida", t.CodigoMedida, "status", t.Status)
	}

	// Validation gates both pages before any external call.
	if missing := pdf.MissingFields(fields1, pdf.RequiredPage1); len(missing) > 0 {
		return "", &ValidationError{Page: 1, Missing: missing}
	}
	if missing := pdf.MissingFields(fields2, pdf.RequiredPage2); len(missing) > 0 {
		return "", &ValidationError{Page: 2, Missing: missing}
	}

	// The two pages depend only on the source record, so they render
	// concurrently. Each page is a separately configured
	// template/credential pair.
	var page1Bytes, page2Bytes []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.renderer.Render(gctx, s.render.TemplateFolha1, s.render.APIKeyFolha1, fields1)
		if err != nil {
			return fmt.Errorf("render folha 1: %w", err)
		}
		page1Bytes = b
		return nil
	})
	g.Go(func() error {
		b, err := s.renderer.Render(gctx, s.render.TemplateFolha2, s.render.APIKeyFolha2, fields2)
		if err != nil {
			return fmt.Errorf("render folha 2: %w", err)
		}
		page2Bytes = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	// Everything staged from here on is removed when the run ends,
	// success or failure.
	var staged []string
	defer func() { s.cleanupRun(log, staged) }()

	base := staging.BaseName(t)

	page1Path, err := s.stage.Write(base+staging.SuffixFolha1, page1Bytes)
	if err != nil {
		return "", fmt.Errorf("stage folha 1: %w", err)
	}
	staged = append(staged, page1Path)

	page2Path, err := s.stage.Write(base+staging.SuffixFolha2, page2Bytes)
	if err != nil {
		return "", fmt.Errorf("stage folha 2: %w", err)
	}
	staged = append(staged, page2Path)

	mergedName := base + staging.SuffixMerged
	mergedPath := filepath.Join(s.stage.Dir(), mergedName)
	staged = append(staged, mergedPath)
	if err := s.merge(page1Path, page2Path, mergedPath); err != nil {
		return "", err
	}

	mergedBytes, err := s.stage.Read(mergedPath)
	if err != nil {
		return "", fmt.Errorf("read merged document: %w", err)
	}

	key := path.Join("documentos", t.Numero, mergedName)
	url, err := s.store.Upload(ctx, key, mergedBytes, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("publish document: %w", err)
	}
	log.Info("document published", "key", key, "size", len(mergedBytes))

	if err := s.recordURL(ctx, log, id, url); err != nil {
		return "", err
	}

	log.Info("document url recorded", "url", url)
	return url, nil
}

// recordURL performs the single record write of the pipeline. A failure
// here happens after a successful publish, the one window where the
// system can end up inconsistent (document durable, record unaware), so
// the update alone is retried once and the case is logged distinctly
// for manual reconciliation.
func (s *tratativaService) recordURL(ctx context.Context, log *slog.Logger, id, url string) error {
	_, err := s.repo.SetDocumentURL(ctx, id, url)
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		log.Error("document published but record vanished", "url", url)
		return fmt.Errorf("update record: %w", ErrNotFound)
	}

	// Retrying only the update is safe: no duplicate external side
	// effects are possible at this point.
	_, retryErr := s.repo.SetDocumentURL(ctx, id, url)
	if retryErr == nil {
		return nil
	}
	log.Error("document published but record update failed, manual reconciliation needed",
		"url", url, "error", retryErr)
	return fmt.Errorf("update record after publish: %w", retryErr)
}

// cleanupRun removes the files this run staged. Deletions are
// independent and run concurrently; failures are logged, never
// escalated, and cannot reverse an already-published result.
func (s *tratativaService) cleanupRun(log *slog.Logger, staged []string) {
	var wg sync.WaitGroup
	for _, p := range staged {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			if err := s.stage.Remove(p); err != nil {
				log.Warn("run cleanup failed", "path", p, "error", err)
			}
		}(p)
	}
	wg.Wait()
}

func (s *tratativaService) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.inFlight[id]; held {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *tratativaService) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}
