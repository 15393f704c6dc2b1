package services

import (
	"context"
	"time"

	"boothStore/models"
	"boothStore/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type invalidator interface {
	Invalidate(ctx context.Context) error
}

// CatalogService is the read side of the product catalog. Remote source
// failures never reach callers; the built-in fixture list is served instead.
type CatalogService struct {
	src     repository.ProductSource
	timeout time.Duration
	log     *zap.Logger
	sf      singleflight.Group
}

// NewCatalogService accepts a nil source, in which case only fixtures are served.
func NewCatalogService(src repository.ProductSource, timeout time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		src:     src,
		timeout: timeout,
		log:     logger,
	}
}

func (cs *CatalogService) sourceCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if cs.timeout > 0 {
		return context.WithTimeout(ctx, cs.timeout)
	}
	return context.WithCancel(ctx)
}

// FetchProducts returns the catalog with every missing image replaced by the
// placeholder.
func (cs *CatalogService) FetchProducts(ctx context.Context) []models.Product {
	if cs.src == nil {
		return withImages(repository.FixtureProducts())
	}
	v, err, _ := cs.sf.Do("products", func() (any, error) {
		// shared by every waiting caller, so one caller going away must not end it
		sctx, cancel := cs.sourceCtx(context.WithoutCancel(ctx))
		defer cancel()
		return cs.src.GetProducts(sctx)
	})
	if err != nil {
		cs.log.Warn("FetchProducts: using fixtures", zap.String("source", cs.src.Name()), zap.Error(err))
		return withImages(repository.FixtureProducts())
	}
	prods, _ := v.([]models.Product)
	if len(prods) == 0 {
		cs.log.Info("FetchProducts: source returned no products, using fixtures", zap.String("source", cs.src.Name()))
		return withImages(repository.FixtureProducts())
	}
	res := make([]models.Product, len(prods))
	copy(res, prods)
	return withImages(res)
}

func withImages(prods []models.Product) []models.Product {
	for i := range prods {
		prods[i].ImageUrl = prods[i].PrimaryImage()
	}
	return prods
}

// FetchSiteSettings fills every empty field from the defaults.
func (cs *CatalogService) FetchSiteSettings(ctx context.Context) models.SiteSettings {
	def := models.DefaultSiteSettings()
	if cs.src == nil {
		return def
	}
	sctx, cancel := cs.sourceCtx(ctx)
	defer cancel()
	s, err := cs.src.GetSiteSettings(sctx)
	if err != nil {
		cs.log.Warn("FetchSiteSettings: using defaults", zap.String("source", cs.src.Name()), zap.Error(err))
		return def
	}
	if s == nil {
		return def
	}
	res := *s
	if res.SiteName == "" {
		res.SiteName = def.SiteName
	}
	if res.NavBoothsLabel == "" {
		res.NavBoothsLabel = def.NavBoothsLabel
	}
	if res.NavStructuresLabel == "" {
		res.NavStructuresLabel = def.NavStructuresLabel
	}
	if res.NavFurnitureLabel == "" {
		res.NavFurnitureLabel = def.NavFurnitureLabel
	}
	return res
}

func (cs *CatalogService) GetProduct(ctx context.Context, id string) (p models.Product, err error) {
	for _, prod := range cs.FetchProducts(ctx) {
		if prod.Id == id {
			p = prod
			return
		}
	}
	err = models.ErrNotFoundError
	return
}

func (cs *CatalogService) ListProducts(ctx context.Context, fc models.FilterCriteria) []models.Product {
	return ApplyFilter(cs.FetchProducts(ctx), fc)
}

// Invalidate drops cached catalog data when the source is cached.
// It reports whether there was a cache to drop.
func (cs *CatalogService) Invalidate(ctx context.Context) (bool, error) {
	inv, ok := cs.src.(invalidator)
	if !ok {
		return false, nil
	}
	if err := inv.Invalidate(ctx); err != nil {
		cs.log.Error("Invalidate", zap.Error(err))
		return true, models.ErrServerError
	}
	return true, nil
}
