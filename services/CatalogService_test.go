package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"boothStore/models"
	"boothStore/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	products    []models.Product
	settings    *models.SiteSettings
	err         error
	invalidated int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) GetProducts(context.Context) ([]models.Product, error) {
	return s.products, s.err
}

func (s *stubSource) GetSiteSettings(context.Context) (*models.SiteSettings, error) {
	return s.settings, s.err
}

type cachedStub struct {
	stubSource
}

func (c *cachedStub) Invalidate(context.Context) error {
	c.invalidated++
	return c.err
}

type slowSource struct{}

func (slowSource) Name() string { return "slow" }

func (slowSource) GetProducts(ctx context.Context) ([]models.Product, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowSource) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCatalog_RemoteProducts(t *testing.T) {
	src := &stubSource{products: []models.Product{product("remote", "10")}}
	cat := NewCatalogService(src, time.Second, zap.NewNop())

	prods := cat.FetchProducts(context.Background())
	assert.Equal(t, []string{"remote"}, ids(prods))
}

func TestCatalog_FallsBackToFixtures(t *testing.T) {
	fixtures := ids(repository.FixtureProducts())
	cases := map[string]repository.ProductSource{
		"nil source":   nil,
		"source error": &stubSource{err: errors.New("boom")},
		"empty result": &stubSource{products: []models.Product{}},
		"null result":  &stubSource{},
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			cat := NewCatalogService(src, time.Second, zap.NewNop())
			assert.Equal(t, fixtures, ids(cat.FetchProducts(context.Background())))
		})
	}
}

func TestCatalog_TimeoutFallsBack(t *testing.T) {
	cat := NewCatalogService(slowSource{}, 20*time.Millisecond, zap.NewNop())
	assert.Len(t, cat.FetchProducts(context.Background()), 8)
	assert.Equal(t, models.DefaultSiteSettings(), cat.FetchSiteSettings(context.Background()))
}

func TestCatalog_SiteSettingsDefaults(t *testing.T) {
	def := models.DefaultSiteSettings()

	cat := NewCatalogService(nil, time.Second, zap.NewNop())
	assert.Equal(t, def, cat.FetchSiteSettings(context.Background()))

	cat = NewCatalogService(&stubSource{err: errors.New("down")}, time.Second, zap.NewNop())
	assert.Equal(t, def, cat.FetchSiteSettings(context.Background()))

	cat = NewCatalogService(&stubSource{}, time.Second, zap.NewNop())
	assert.Equal(t, def, cat.FetchSiteSettings(context.Background()))

	partial := &models.SiteSettings{SiteName: "Expo Rentals", NavFurnitureLabel: "Seating"}
	cat = NewCatalogService(&stubSource{settings: partial}, time.Second, zap.NewNop())
	got := cat.FetchSiteSettings(context.Background())
	assert.Equal(t, "Expo Rentals", got.SiteName)
	assert.Equal(t, def.NavBoothsLabel, got.NavBoothsLabel)
	assert.Equal(t, def.NavStructuresLabel, got.NavStructuresLabel)
	assert.Equal(t, "Seating", got.NavFurnitureLabel)
}

func TestCatalog_GetProduct(t *testing.T) {
	cat := NewCatalogService(nil, time.Second, zap.NewNop())

	p, err := cat.GetProduct(context.Background(), "booth-island-60")
	require.NoError(t, err)
	assert.Equal(t, "Island 60", p.Name)

	_, err = cat.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFoundError)
}

func TestCatalog_ListProducts(t *testing.T) {
	cat := NewCatalogService(nil, time.Second, zap.NewNop())
	res := cat.ListProducts(context.Background(), models.FilterCriteria{Tags: []string{"island"}})
	assert.Equal(t, []string{"booth-island-180", "booth-island-60"}, ids(res))
}

func TestCatalog_Invalidate(t *testing.T) {
	ctx := context.Background()

	plain := NewCatalogService(&stubSource{}, time.Second, zap.NewNop())
	cached, err := plain.Invalidate(ctx)
	require.NoError(t, err)
	assert.False(t, cached)

	src := &cachedStub{}
	cat := NewCatalogService(src, time.Second, zap.NewNop())
	cached, err = cat.Invalidate(ctx)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, src.invalidated)

	src.err = errors.New("redis gone")
	_, err = cat.Invalidate(ctx)
	assert.ErrorIs(t, err, models.ErrServerError)
}

type gatedSource struct {
	release chan struct{}
	calls   atomic.Int32
}

func (g *gatedSource) Name() string { return "gated" }

func (g *gatedSource) GetProducts(ctx context.Context) ([]models.Product, error) {
	g.calls.Add(1)
	select {
	case <-g.release:
		return []models.Product{product("remote", "10")}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedSource) GetSiteSettings(context.Context) (*models.SiteSettings, error) {
	return nil, nil
}

func TestCatalog_SharedFetchOutlivesCancelledCaller(t *testing.T) {
	src := &gatedSource{release: make(chan struct{})}
	cat := NewCatalogService(src, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan []models.Product, 1)
	go func() { first <- cat.FetchProducts(ctx) }()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan []models.Product, 1)
	go func() { second <- cat.FetchProducts(context.Background()) }()

	cancel()
	time.Sleep(20 * time.Millisecond)
	close(src.release)

	assert.Equal(t, []string{"remote"}, ids(<-first))
	assert.Equal(t, []string{"remote"}, ids(<-second))
}

func TestCatalog_MissingImagesUsePlaceholder(t *testing.T) {
	withImage := product("pictured", "10")
	withImage.ImageUrl = "/Images/booth.png"
	src := &stubSource{products: []models.Product{product("bare", "10"), withImage}}
	cat := NewCatalogService(src, time.Second, zap.NewNop())

	prods := cat.FetchProducts(context.Background())
	require.Len(t, prods, 2)
	assert.Equal(t, models.PlaceholderImageURL, prods[0].ImageUrl)
	assert.Equal(t, "/Images/booth.png", prods[1].ImageUrl)

	p, err := cat.GetProduct(context.Background(), "bare")
	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderImageURL, p.ImageUrl)
	assert.Empty(t, src.products[0].ImageUrl)
}
