package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"boothStore/entities"
	"boothStore/models"
	"boothStore/schema"
	"boothStore/services"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cartCookie = "cartSessionId"

type Handler struct {
	cat *services.CatalogService
	cs  *services.CartService
	ors *services.OrderService
	as  *services.AdminService
	bs  *services.BriefService
	ttl time.Duration
	log *zap.Logger
}

type HandlerParams struct {
	CatService *services.CatalogService
	CrtService *services.CartService
	OrdService *services.OrderService
	AdmService *services.AdminService
	BrfService *services.BriefService
	// CartTTL is the lifetime of the cart session cookie; zero means 24h.
	CartTTL time.Duration
	Logger  *zap.Logger
}

func NewHandler(params HandlerParams) *Handler {
	ttl := params.CartTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cat: params.CatService,
		cs:  params.CrtService,
		ors: params.OrdService,
		as:  params.AdmService,
		bs:  params.BrfService,
		ttl: ttl,
		log: logger,
	}
}

// Router registers every route on a new gorilla/mux router.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(h.ErrorHandleMiddleware)

	router.HandleFunc("/", h.Welcome).Methods("GET")
	router.HandleFunc("/schema", h.GetSchema).Methods("GET")

	router.HandleFunc("/products", h.ListProducts).Methods("GET")
	router.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")

	router.HandleFunc("/cart", h.GetCart).Methods("GET")
	router.HandleFunc("/cart", h.AddToCart).Methods("POST")
	router.HandleFunc("/cart", h.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/count", h.CartCount).Methods("GET")
	router.HandleFunc("/cart/order", h.CreateOrder).Methods("POST")
	router.HandleFunc("/cart/{id}", h.UpdateCartItem).Methods("PUT")
	router.HandleFunc("/cart/{id}", h.DeleteFromCart).Methods("DELETE")

	router.HandleFunc("/brief", h.GetBrief).Methods("GET")
	router.HandleFunc("/brief", h.SubmitBrief).Methods("POST")
	router.HandleFunc("/brief/progress", h.BriefProgress).Methods("POST")

	admin := router.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/products", h.AdminListProducts).Methods("GET")
	admin.HandleFunc("/products", h.AdminCreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", h.AdminDeleteProduct).Methods("DELETE")
	admin.HandleFunc("/congresses", h.AdminListCongresses).Methods("GET")
	admin.HandleFunc("/congresses", h.AdminCreateCongress).Methods("POST")
	admin.HandleFunc("/congresses/{id}", h.AdminDeleteCongress).Methods("DELETE")
	admin.HandleFunc("/export", h.AdminExport).Methods("GET")
	admin.HandleFunc("/cache/invalidate", h.InvalidateCache).Methods("POST")
	return router
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		h.log.Error("Marshal", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonData)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		h.log.Info("Unmarshal", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.cat.FetchSiteSettings(r.Context()))
}

func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, schema.All())
}

// products

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	fc, err := services.ParseFilterCriteria(r.URL.Query())
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.cat.ListProducts(r.Context(), fc))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	prod, err := h.cat.GetProduct(r.Context(), vars["id"])
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prod)
}

// cart

// cartSessionId reads the cart cookie. Without a cookie a new session is
// started when create is set; otherwise ok is false.
func (h *Handler) cartSessionId(w http.ResponseWriter, r *http.Request, create bool) (id string, ok bool) {
	c, err := r.Cookie(cartCookie)
	if err == nil && c.Value != "" {
		return c.Value, true
	}
	if err != nil && !errors.Is(err, http.ErrNoCookie) {
		h.log.Warn("Cookie", zap.Error(err))
	}
	if !create {
		return "", false
	}
	id = h.cs.CreateCartSession()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(h.ttl),
		HttpOnly: true,
	})
	return id, true
}

func emptyCart() entities.CartResponse {
	return services.CartResponse(nil, 0, services.FormatMoney(decimal.Zero))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartSessionId(w, r, false)
	if !ok {
		h.writeJSON(w, http.StatusOK, emptyCart())
		return
	}
	h.writeJSON(w, http.StatusOK, h.cs.GetCartItems(r.Context(), id))
}

func (h *Handler) CartCount(w http.ResponseWriter, r *http.Request) {
	resp := entities.CountResponse{}
	if id, ok := h.cartSessionId(w, r, false); ok {
		resp.Count = h.cs.ItemCount(r.Context(), id)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	req := entities.CartRequest{}
	if !h.decode(w, r, &req) {
		return
	}
	if req.ProductId == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	id, _ := h.cartSessionId(w, r, true)
	if err := h.cs.AddCartItem(r.Context(), id, req); err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.cs.GetCartItems(r.Context(), id))
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	req := entities.QuantityRequest{}
	if !h.decode(w, r, &req) {
		return
	}
	id, ok := h.cartSessionId(w, r, false)
	if !ok {
		h.writeJSON(w, http.StatusOK, emptyCart())
		return
	}
	if err := h.cs.UpdateQuantity(r.Context(), id, vars["id"], req.Quantity); err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.cs.GetCartItems(r.Context(), id))
}

func (h *Handler) DeleteFromCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := h.cartSessionId(w, r, false)
	if !ok {
		h.writeJSON(w, http.StatusOK, emptyCart())
		return
	}
	if err := h.cs.RemoveCartItem(r.Context(), id, vars["id"]); err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.cs.GetCartItems(r.Context(), id))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.cartSessionId(w, r, false); ok {
		if err := h.cs.ClearCart(r.Context(), id); err != nil {
			WriteErrorResponse(w, err)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, emptyCart())
}

// orders

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	req := models.OrderRequest{}
	if !h.decode(w, r, &req) {
		return
	}
	id, ok := h.cartSessionId(w, r, false)
	if !ok {
		// validation errors take precedence over the empty cart
		if _, _, err := h.ors.ValidateOrderRequest(req); err != nil {
			WriteErrorResponse(w, err)
			return
		}
		http.Error(w, "bad request: cart is empty", http.StatusBadRequest)
		return
	}
	order, err := h.ors.PlaceOrder(r.Context(), id, req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, order)
}

// admin

func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.as.ListProducts())
}

func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	form := entities.ProductForm{}
	if !h.decode(w, r, &form) {
		return
	}
	p, err := h.as.CreateProduct(form)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.as.DeleteProduct(vars["id"]); err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminListCongresses(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.as.ListCongresses())
}

func (h *Handler) AdminCreateCongress(w http.ResponseWriter, r *http.Request) {
	form := entities.CongressForm{}
	if !h.decode(w, r, &form) {
		return
	}
	c, err := h.as.CreateCongress(form)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) AdminDeleteCongress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.as.DeleteCongress(vars["id"]); err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// brief

func (h *Handler) GetBrief(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.bs.Sections())
}

func (h *Handler) BriefProgress(w http.ResponseWriter, r *http.Request) {
	req := entities.BriefRequest{}
	if !h.decode(w, r, &req) {
		return
	}
	h.writeJSON(w, http.StatusOK, entities.BriefProgress{Progress: h.bs.Progress(req.Answers)})
}

func (h *Handler) SubmitBrief(w http.ResponseWriter, r *http.Request) {
	req := entities.BriefRequest{}
	if !h.decode(w, r, &req) {
		return
	}
	receipt, err := h.bs.Submit(req.Answers)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) AdminExport(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "csv" {
		data, err := h.as.ExportProductsCSV()
		if err != nil {
			WriteErrorResponse(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="booth-products.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="booth-catalog-data.json"`)
	h.writeJSON(w, http.StatusOK, h.as.Export())
}

func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	cached, err := h.cat.Invalidate(r.Context())
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	if !cached {
		http.Error(w, "catalog cache is not enabled", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// middleware

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error("panic occured", zap.Any("panic", rec), zap.String("stacktrace", string(debug.Stack())))
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonData, _ := json.MarshalIndent(verr, "", "  ")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write(jsonData)
	case errors.Is(err, models.ErrServerError):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.Is(err, models.ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFoundError):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrNotAllowed):
		http.Error(w, err.Error(), http.StatusNotAcceptable)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
