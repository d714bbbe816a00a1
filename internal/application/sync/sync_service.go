package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/ledger"
	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/catalogsync/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 100

// SyncService orchestrates provider sync jobs: it owns the job ledger,
// the delta-window derivation and every catalog write.
type SyncService struct {
	providerRepo catalog.ProviderRepository
	brandRepo    catalog.BrandRepository
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	jobRepo      ledger.SyncJobRepository
	registry     provider.Registry
	cache        *cache.CatalogCache
	logger       *zap.Logger
	pageSize     int
	jobTimeout   time.Duration
	deltaOverlap time.Duration
	maxLogLines  int
}

// SyncServiceOption is a functional option for configuring the service
type SyncServiceOption func(*SyncService)

// WithPageSize sets the product page size requested from adapters
func WithPageSize(n int) SyncServiceOption {
	return func(s *SyncService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithCache sets the catalog cache invalidated after each run
func WithCache(c *cache.CatalogCache) SyncServiceOption {
	return func(s *SyncService) {
		s.cache = c
	}
}

// WithJobTimeout caps the wall-clock time of one provider run. The job
// still reaches a terminal state when the cap fires: the run aborts with
// the context error and the ledger records FAILED.
func WithJobTimeout(d time.Duration) SyncServiceOption {
	return func(s *SyncService) {
		if d > 0 {
			s.jobTimeout = d
		}
	}
}

// WithDeltaOverlap rewinds the delta window by the given duration to
// absorb clock skew between this service and the distributor feeds
func WithDeltaOverlap(d time.Duration) SyncServiceOption {
	return func(s *SyncService) {
		if d > 0 {
			s.deltaOverlap = d
		}
	}
}

// WithMaxJobLogLines caps the structured log lines persisted on a job
func WithMaxJobLogLines(n int) SyncServiceOption {
	return func(s *SyncService) {
		if n > 0 {
			s.maxLogLines = n
		}
	}
}

// NewSyncService creates a new SyncService
func NewSyncService(
	providerRepo catalog.ProviderRepository,
	brandRepo catalog.BrandRepository,
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	jobRepo ledger.SyncJobRepository,
	registry provider.Registry,
	logger *zap.Logger,
	opts ...SyncServiceOption,
) *SyncService {
	s := &SyncService{
		providerRepo: providerRepo,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		jobRepo:      jobRepo,
		registry:     registry,
		logger:       logger,
		pageSize:     defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunSync runs one sync job for the given provider key and returns the
// job ID. The call is synchronous: it returns once the job reaches a
// terminal state. Eligibility problems fail before any job row exists.
func (s *SyncService) RunSync(ctx context.Context, providerKey string) (uuid.UUID, error) {
	prov, err := s.providerRepo.FindByKey(ctx, providerKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.NewDomainError("PROVIDER_NOT_FOUND", fmt.Sprintf("provider %q not found", providerKey))
		}
		return uuid.Nil, err
	}
	if !prov.Enabled {
		return uuid.Nil, shared.ErrProviderDisabled
	}

	adapter, err := s.registry.Get(providerKey)
	if err != nil {
		return uuid.Nil, err
	}

	job := ledger.NewSyncJob(prov.ID)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return uuid.Nil, err
	}

	log := s.logger.With(zap.String("provider", providerKey), zap.String("job_id", job.ID.String()))

	// The final job update below must not be lost to the run cap, so only
	// the run itself gets the bounded context
	runCtx := ctx
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	fetched, upserted, runErr := s.run(runCtx, log, job, prov, adapter)
	if runErr != nil {
		s.jobLog(job, "error", "sync failed: "+runErr.Error())
		log.Error("sync failed", zap.Error(runErr))
		if err := job.Fail(fetched, upserted, runErr.Error()); err != nil {
			return job.ID, err
		}
	} else {
		s.jobLog(job, "info", fmt.Sprintf("sync complete, fetched %d, upserted %d", fetched, upserted))
		log.Info("sync complete", zap.Int("fetched", fetched), zap.Int("upserted", upserted))
		if err := job.Complete(fetched, upserted); err != nil {
			return job.ID, err
		}
	}

	// The only mutation the job receives after creation
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return job.ID, err
	}

	if s.cache != nil {
		s.cache.InvalidatePrefix(ctx, "providers")
	}
	return job.ID, nil
}

// RunSyncAll runs one job per enabled provider that has a registered
// adapter. One provider's failure does not stop the loop; the returned
// slice holds the IDs of every job that was created.
func (s *SyncService) RunSyncAll(ctx context.Context) ([]uuid.UUID, error) {
	enabled, err := s.providerRepo.FindEnabledKeys(ctx)
	if err != nil {
		return nil, err
	}
	enabledSet := make(map[string]bool, len(enabled))
	for _, k := range enabled {
		enabledSet[k] = true
	}

	var jobIDs []uuid.UUID
	for _, key := range s.registry.Keys() {
		if !enabledSet[key] {
			continue
		}
		jobID, err := s.RunSync(ctx, key)
		if err != nil {
			s.logger.Warn("provider sync errored", zap.String("provider", key), zap.Error(err))
		}
		if jobID != uuid.Nil {
			jobIDs = append(jobIDs, jobID)
		}
	}
	return jobIDs, nil
}

// TestProvider probes a provider's feed with the configured credentials.
// A construction failure (missing credential) is reported as a failed
// probe, not an error; only an unknown key errors.
func (s *SyncService) TestProvider(ctx context.Context, providerKey string) (provider.TestResult, error) {
	adapter, err := s.registry.Get(providerKey)
	if err != nil {
		if errors.Is(err, provider.ErrAdapterNotRegistered) {
			return provider.TestResult{}, shared.NewDomainError("PROVIDER_NOT_FOUND", fmt.Sprintf("no adapter for key %q", providerKey))
		}
		return provider.TestResult{Success: false, Message: err.Error()}, nil
	}
	return adapter.TestConnection(ctx), nil
}

// run executes steps 3-6 of a job: window derivation, brand and category
// upserts, then the paginated product loop. It returns the counters
// accumulated so far even on failure; progress already written is kept.
func (s *SyncService) run(ctx context.Context, log *zap.Logger, job *ledger.SyncJob, prov *catalog.Provider, adapter provider.Adapter) (fetched, upserted int, err error) {
	s.jobLog(job, "info", "starting sync")

	updatedSince, err := s.deltaWindow(ctx, prov.ID)
	if err != nil {
		return 0, 0, err
	}
	if updatedSince != nil {
		s.jobLog(job, "info", fmt.Sprintf("delta sync since %s", updatedSince.UTC().Format(time.RFC3339)))
	} else {
		s.jobLog(job, "info", "full sync, no previous successful run")
	}

	brands, err := adapter.FetchBrands(ctx)
	if err != nil {
		return 0, 0, err
	}
	s.jobLog(job, "info", fmt.Sprintf("fetched %d brands", len(brands)))
	for _, b := range brands {
		if err := s.upsertBrand(ctx, prov.ID, b); err != nil {
			return 0, 0, err
		}
	}

	categories, err := adapter.FetchCategories(ctx)
	if err != nil {
		return 0, 0, err
	}
	s.jobLog(job, "info", fmt.Sprintf("fetched %d categories", len(categories)))
	for _, c := range categories {
		if err := s.upsertCategory(ctx, prov.ID, c); err != nil {
			return 0, 0, err
		}
	}

	cursor := ""
	page := 0
	for {
		result, err := adapter.FetchProducts(ctx, provider.FetchOptions{
			Cursor:       cursor,
			UpdatedSince: updatedSince,
			Limit:        s.pageSize,
		})
		if err != nil {
			return fetched, upserted, err
		}
		page++
		fetched += len(result.Products)

		for i := range result.Products {
			if err := s.upsertProduct(ctx, prov.ID, result.Products[i]); err != nil {
				return fetched, upserted, err
			}
			upserted++
		}

		s.jobLog(job, "info", fmt.Sprintf("page %d: %d products (total %d)", page, len(result.Products), fetched))
		log.Debug("page applied", zap.Int("page", page), zap.Int("count", len(result.Products)))

		if !result.HasMore || result.NextCursor == "" {
			break
		}
		cursor = result.NextCursor
	}

	return fetched, upserted, nil
}

// jobLog records one structured log line on the job, dropping lines past
// the configured cap so a huge feed cannot bloat the ledger row
func (s *SyncService) jobLog(job *ledger.SyncJob, level, message string) {
	if s.maxLogLines > 0 && len(job.Logs) >= s.maxLogLines {
		return
	}
	job.AppendLog(level, message)
}

// deltaWindow derives updatedSince from the job ledger: the end time of
// the provider's most recent SUCCESS job rewound by the configured
// overlap, or nil for a full sync. There is no separate watermark store.
func (s *SyncService) deltaWindow(ctx context.Context, providerID uuid.UUID) (*time.Time, error) {
	last, err := s.jobRepo.FindLastSuccess(ctx, providerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if last.EndedAt == nil {
		return nil, nil
	}
	since := *last.EndedAt
	if s.deltaOverlap > 0 {
		since = since.Add(-s.deltaOverlap)
	}
	return &since, nil
}

func (s *SyncService) upsertBrand(ctx context.Context, providerID uuid.UUID, nb provider.NormalizedBrand) error {
	existing, err := s.brandRepo.FindByExternalID(ctx, providerID, nb.ExternalID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		brand, err := catalog.NewBrand(providerID, nb.ExternalID, nb.Name)
		if err != nil {
			return err
		}
		return s.brandRepo.Save(ctx, brand)
	}
	if existing.Name == nb.Name {
		return nil
	}
	existing.Rename(nb.Name)
	return s.brandRepo.Save(ctx, existing)
}

func (s *SyncService) upsertCategory(ctx context.Context, providerID uuid.UUID, nc provider.NormalizedCategory) error {
	existing, err := s.categoryRepo.FindByExternalID(ctx, providerID, nc.ExternalID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		category, err := catalog.NewCategory(providerID, nc.ExternalID, nc.Name, nc.ParentExternalID)
		if err != nil {
			return err
		}
		return s.categoryRepo.Save(ctx, category)
	}
	if existing.Name == nc.Name && existing.ParentExternalID == nc.ParentExternalID {
		return nil
	}
	existing.Rename(nc.Name)
	existing.ParentExternalID = nc.ParentExternalID
	return s.categoryRepo.Save(ctx, existing)
}

// upsertProduct writes one normalized product. Absent fields (nil price,
// nil stock, nil attribute map) carry no information and leave the
// stored values untouched, so a sparse delta row never wipes data a full
// sync wrote earlier.
func (s *SyncService) upsertProduct(ctx context.Context, providerID uuid.UUID, np provider.NormalizedProduct) error {
	brandID, categoryID, err := s.resolveAssociations(ctx, providerID, np)
	if err != nil {
		return err
	}

	existing, err := s.productRepo.FindByExternalID(ctx, providerID, np.ExternalID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if existing == nil {
		product, err := catalog.NewProduct(providerID, np.ExternalID, np.Name)
		if err != nil {
			return err
		}
		applyProductFields(product, np, brandID, categoryID)
		if err := s.productRepo.Save(ctx, product); err != nil {
			return err
		}
		if np.Price != nil {
			if err := s.productRepo.AddPriceHistory(ctx, catalog.NewPriceHistory(product.ID, *np.Price, product.Currency)); err != nil {
				return err
			}
		}
		return s.replaceAttributes(ctx, product.ID, np.Attributes)
	}

	priceChanged := existing.PriceChanged(np.Price)
	applyProductFields(existing, np, brandID, categoryID)
	existing.Touch()
	if err := s.productRepo.Save(ctx, existing); err != nil {
		return err
	}
	if priceChanged {
		if err := s.productRepo.AddPriceHistory(ctx, catalog.NewPriceHistory(existing.ID, *np.Price, existing.Currency)); err != nil {
			return err
		}
	}
	return s.replaceAttributes(ctx, existing.ID, np.Attributes)
}

// resolveAssociations looks up brand and category by external ID.
// Absence is not an error: the product is stored without the link.
func (s *SyncService) resolveAssociations(ctx context.Context, providerID uuid.UUID, np provider.NormalizedProduct) (brandID, categoryID *uuid.UUID, err error) {
	if np.BrandExternalID != "" {
		brand, err := s.brandRepo.FindByExternalID(ctx, providerID, np.BrandExternalID)
		if err == nil {
			brandID = &brand.ID
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
	}
	if np.CategoryExternalID != "" {
		category, err := s.categoryRepo.FindByExternalID(ctx, providerID, np.CategoryExternalID)
		if err == nil {
			categoryID = &category.ID
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
	}
	return brandID, categoryID, nil
}

// replaceAttributes rewrites a product's attribute set. A nil map means
// the feed carried no attribute information this cycle; an empty map is a
// real observation and clears whatever was stored.
func (s *SyncService) replaceAttributes(ctx context.Context, productID uuid.UUID, attrs map[string]string) error {
	if attrs == nil {
		return nil
	}
	rows := make([]catalog.ProductAttribute, 0, len(attrs))
	for k, v := range attrs {
		rows = append(rows, catalog.NewProductAttribute(productID, k, v))
	}
	return s.productRepo.ReplaceAttributes(ctx, productID, rows)
}

// applyProductFields copies the present fields of a normalized product
// onto the entity
func applyProductFields(product *catalog.Product, np provider.NormalizedProduct, brandID, categoryID *uuid.UUID) {
	if np.Name != "" {
		product.Name = np.Name
	}
	if np.SKU != "" {
		product.SKU = np.SKU
	}
	if np.Description != "" {
		product.Description = np.Description
	}
	if np.Price != nil {
		product.Price = np.Price
	}
	if np.Currency != "" {
		product.Currency = np.Currency
	}
	if np.StockQty != nil {
		product.StockQty = np.StockQty
	}
	product.InStock = np.InStock
	if np.URL != "" {
		product.URL = np.URL
	}
	if np.Images != nil {
		product.Images = np.Images
	}
	if np.RawPayload != nil {
		product.SetRawPayload(np.RawPayload)
	}
	if brandID != nil {
		product.BrandID = brandID
	}
	if categoryID != nil {
		product.CategoryID = categoryID
	}
}
