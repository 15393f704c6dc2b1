package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"boothStore/entities"
	"boothStore/models"
	"boothStore/repository"
	"boothStore/schema"
	"boothStore/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testClient struct {
	t      *testing.T
	router *mux.Router
	cookie *http.Cookie
}

func setupRouter(t *testing.T) *testClient {
	t.Helper()
	logger := zap.NewNop()

	db, err := repository.OpenSqlite(filepath.Join(t.TempDir(), "cart.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cartRepo, err := repository.NewSqliteCartRepository(context.Background(), db, time.Hour, logger)
	require.NoError(t, err)

	catalog := services.NewCatalogService(nil, time.Second, logger)
	carts := services.NewCartService(catalog, cartRepo, "jnj-cart", logger)
	admin := services.NewAdminService(logger)
	h := NewHandler(HandlerParams{
		CatService: catalog,
		CrtService: carts,
		OrdService: services.NewOrderService(carts, admin, logger),
		AdmService: admin,
		BrfService: services.NewBriefService(logger),
		Logger:     logger,
	})
	return &testClient{t: t, router: h.Router()}
}

func (c *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cartCookie {
			c.cookie = ck
		}
	}
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestWelcome(t *testing.T) {
	c := setupRouter(t)
	rec := c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DefaultSiteSettings(), decodeBody[models.SiteSettings](t, rec))
}

func TestGetSchema(t *testing.T) {
	c := setupRouter(t)
	rec := c.do(http.MethodGet, "/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	docs := decodeBody[[]schema.Document](t, rec)
	assert.Len(t, docs, len(schema.All()))
}

func TestListProducts(t *testing.T) {
	c := setupRouter(t)

	rec := c.do(http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Product](t, rec), 8)

	rec = c.do(http.MethodGet, "/products?type=Booths&minWidth=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	prods := decodeBody[[]models.Product](t, rec)
	require.Len(t, prods, 1)
	assert.Equal(t, "booth-island-180", prods[0].Id)

	rec = c.do(http.MethodGet, "/products?maxCost=free", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct(t *testing.T) {
	c := setupRouter(t)

	rec := c.do(http.MethodGet, "/products/struct-002", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "struct-002", decodeBody[models.Product](t, rec).Id)

	rec = c.do(http.MethodGet, "/products/none", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_EmptyWithoutCookie(t *testing.T) {
	c := setupRouter(t)

	rec := c.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeBody[entities.CartResponse](t, rec)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.Total)
	assert.Nil(t, c.cookie)

	rec = c.do(http.MethodGet, "/cart/count", nil)
	assert.Equal(t, 0, decodeBody[entities.CountResponse](t, rec).Count)

	rec = c.do(http.MethodDelete, "/cart/struct-001", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCart_Flow(t *testing.T) {
	c := setupRouter(t)

	rec := c.do(http.MethodPost, "/cart", entities.CartRequest{ProductId: "struct-001", CustomizationIds: []string{"bench"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, c.cookie)

	rec = c.do(http.MethodPost, "/cart", entities.CartRequest{ProductId: "struct-001"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodPost, "/cart", entities.CartRequest{ProductId: "booth-island-60"})
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeBody[entities.CartResponse](t, c.do(http.MethodGet, "/cart", nil))
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, []string{"Bench"}, cart.Items[0].Customizations)
	assert.Equal(t, 3, cart.ItemCount)

	rec = c.do(http.MethodPut, "/cart/booth-island-60", entities.QuantityRequest{Quantity: 4})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, decodeBody[entities.CountResponse](t, c.do(http.MethodGet, "/cart/count", nil)).Count)

	rec = c.do(http.MethodPut, "/cart/booth-island-60", entities.QuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decodeBody[entities.CartResponse](t, rec)
	require.Len(t, cart.Items, 1)

	rec = c.do(http.MethodDelete, "/cart/struct-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[entities.CartResponse](t, rec).Items)
}

func TestCart_AddErrors(t *testing.T) {
	c := setupRouter(t)

	rec := c.do(http.MethodPost, "/cart", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/cart", entities.CartRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/cart", entities.CartRequest{ProductId: "ghost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/cart", entities.CartRequest{ProductId: "struct-002", CustomizationIds: []string{"bench"}})
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	rec = c.do(http.MethodPost, "/cart", entities.CartRequest{ProductId: "struct-001", CustomizationIds: []string{"jacuzzi"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_Clear(t *testing.T) {
	c := setupRouter(t)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart", entities.CartRequest{ProductId: "struct-003"}).Code)

	rec := c.do(http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeBody[entities.CountResponse](t, c.do(http.MethodGet, "/cart/count", nil)).Count)
}

func createCongress(t *testing.T, c *testClient) models.Congress {
	t.Helper()
	rec := c.do(http.MethodPost, "/admin/congresses", entities.CongressForm{
		Name:      "ASCO",
		Location:  "Chicago, IL",
		Venue:     "McCormick Place",
		StartDate: "2026-05-29",
		EndDate:   "2026-06-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[models.Congress](t, rec)
}

func TestCreateOrder(t *testing.T) {
	c := setupRouter(t)
	congress := createCongress(t, c)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart", entities.CartRequest{ProductId: "booth-island-180"}).Code)

	rec := c.do(http.MethodPost, "/cart/order", models.OrderRequest{
		CongressId:  congress.Id,
		RequestedBy: "Dana Reyes, Events Lead",
		StartDate:   "2026-05-29",
		EndDate:     "2026-06-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeBody[entities.Order](t, rec)
	assert.Equal(t, services.OrderStatusPending, order.Status)
	require.Len(t, order.Lines, 1)

	assert.Equal(t, 0, decodeBody[entities.CountResponse](t, c.do(http.MethodGet, "/cart/count", nil)).Count)
}

func TestCreateOrder_Validation(t *testing.T) {
	c := setupRouter(t)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart", entities.CartRequest{ProductId: "struct-001"}).Code)

	rec := c.do(http.MethodPost, "/cart/order", models.OrderRequest{StartDate: "2026-06-02", EndDate: "2026-05-01"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	verr := decodeBody[models.ValidationError](t, rec)
	assert.Equal(t, "Please select a congress", verr.Fields["congressId"])
	assert.Equal(t, "Please enter your name and title", verr.Fields["requestedBy"])
	assert.Equal(t, "End date must be after start date", verr.Fields["endDate"])
}

func TestCreateOrder_NoCart(t *testing.T) {
	c := setupRouter(t)
	congress := createCongress(t, c)
	rec := c.do(http.MethodPost, "/cart/order", models.OrderRequest{
		CongressId:  congress.Id,
		RequestedBy: "Dana",
		StartDate:   "2026-05-29",
		EndDate:     "2026-05-30",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminProducts(t *testing.T) {
	c := setupRouter(t)

	rec := c.do(http.MethodPost, "/admin/products", entities.ProductForm{Name: "Corner 40", Tags: "corner", Width: 4, Depth: 4})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[models.Product](t, rec)

	list := decodeBody[[]models.Product](t, c.do(http.MethodGet, "/admin/products", nil))
	assert.Len(t, list, 9)

	// admin edits stay out of the public catalog
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/products/"+created.Id, nil).Code)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/admin/products/"+created.Id, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/admin/products/"+created.Id, nil).Code)

	rec = c.do(http.MethodPost, "/admin/products", entities.ProductForm{Type: "tent"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody[models.ValidationError](t, rec).Fields, "name")
}

func TestAdminCongressesAndExport(t *testing.T) {
	c := setupRouter(t)
	congress := createCongress(t, c)

	list := decodeBody[[]models.Congress](t, c.do(http.MethodGet, "/admin/congresses", nil))
	require.Len(t, list, 1)

	rec := c.do(http.MethodGet, "/admin/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	exp := decodeBody[entities.AdminExport](t, rec)
	assert.Len(t, exp.Products, 8)
	assert.Len(t, exp.Congresses, 1)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/admin/congresses/"+congress.Id, nil).Code)
	assert.Empty(t, decodeBody[[]models.Congress](t, c.do(http.MethodGet, "/admin/congresses", nil)))
}

func TestAdminExportCSV(t *testing.T) {
	c := setupRouter(t)
	rec := c.do(http.MethodGet, "/admin/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "id,name,type,category"))
	assert.Contains(t, rec.Body.String(), "struct-001")
}

const completeBrief = `{"answers": {
	"event-name": "EHA 2026",
	"event-dates": "11 - 14 June 2026",
	"venue": "Stockholm, Sweden",
	"therapy-area": "Haematology",
	"target-audience": "Haematologists",
	"key-messages": "Launch",
	"budget": "Over €500k",
	"preferred-structures": ["Short Totem", "VR Headset Desk"]
}}`

func TestBrief(t *testing.T) {
	c := setupRouter(t)

	rec := c.do(http.MethodGet, "/brief", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sections := decodeBody[[]models.BriefSection](t, rec)
	require.Len(t, sections, 6)
	assert.Equal(t, "event-overview", sections[0].Id)

	rec = c.do(http.MethodPost, "/brief/progress", `{"answers": {"event-name": "EHA 2026", "venue": ["Stockholm"]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 33, decodeBody[entities.BriefProgress](t, rec).Progress)

	rec = c.do(http.MethodPost, "/brief", `{"answers": {"event-name": "EHA 2026", "budget": "a lot"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := decodeBody[models.ValidationError](t, rec).Fields
	assert.Equal(t, "This field is required", fields["venue"])
	assert.Equal(t, "Choose one of the listed options", fields["budget"])

	rec = c.do(http.MethodPost, "/brief", completeBrief)
	require.Equal(t, http.StatusCreated, rec.Code)
	receipt := decodeBody[entities.BriefReceipt](t, rec)
	assert.True(t, strings.HasPrefix(receipt.BriefId, "brief-"))
	assert.Equal(t, "EHA 2026", receipt.Event)
	assert.Equal(t, 100, receipt.Progress)
	assert.Equal(t, []string{"Short Totem", "VR Headset Desk"}, receipt.Answers["preferred-structures"])

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/brief", "{").Code)
}

func TestInvalidateCache_Disabled(t *testing.T) {
	c := setupRouter(t)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/admin/cache/invalidate", nil).Code)
}

func TestErrorHandleMiddleware(t *testing.T) {
	h := NewHandler(HandlerParams{})
	panicking := h.ErrorHandleMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestWriteErrorResponse(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{models.ErrBadRequest, http.StatusBadRequest},
		{models.ErrNotFoundError, http.StatusNotFound},
		{models.ErrNotAllowed, http.StatusNotAcceptable},
		{models.ErrServerError, http.StatusInternalServerError},
		{&models.ValidationError{Fields: map[string]string{"name": "Name is required"}}, http.StatusUnprocessableEntity},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteErrorResponse(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}
