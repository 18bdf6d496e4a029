package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/nextbloom/nextbloom-api/app/repositories"
	"github.com/nextbloom/nextbloom-api/app/services"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

type ProductHandler struct {
	render       *render.Render
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
}

func NewProductHandler(r *render.Render, productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl) *ProductHandler {
	return &ProductHandler{render: r, productRepo: productRepo, categoryRepo: categoryRepo}
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, req *http.Request) {
	categories, err := h.categoryRepo.GetActive(req.Context())
	if err != nil {
		zap.L().Error("failed to list categories", zap.Error(err))
		_ = h.render.JSON(w, http.StatusInternalServerError, M{"error": "something went wrong"})
		return
	}
	_ = h.render.JSON(w, http.StatusOK, M{"categories": categories})
}

// ListProducts supports ?category=, ?featured=true, ?on_sale=true,
// ?search=, ?ordering= and page/limit pagination.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, req *http.Request) {
	h.list(w, req, nil)
}

func (h *ProductHandler) FeaturedProducts(w http.ResponseWriter, req *http.Request) {
	h.list(w, req, func(f *repositories.ProductFilter) { f.Featured = true })
}

func (h *ProductHandler) OnSaleProducts(w http.ResponseWriter, req *http.Request) {
	h.list(w, req, func(f *repositories.ProductFilter) { f.OnSale = true })
}

func (h *ProductHandler) CategoryProducts(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	category, err := h.categoryRepo.GetByID(req.Context(), id)
	if err != nil {
		zap.L().Error("failed to load category", zap.String("id", id), zap.Error(err))
		_ = h.render.JSON(w, http.StatusInternalServerError, M{"error": "something went wrong"})
		return
	}
	if category == nil {
		_ = h.render.JSON(w, http.StatusNotFound, M{"error": "category not found"})
		return
	}

	h.list(w, req, func(f *repositories.ProductFilter) { f.CategoryID = id })
}

func (h *ProductHandler) list(w http.ResponseWriter, req *http.Request, narrow func(*repositories.ProductFilter)) {
	q := req.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := repositories.ProductFilter{
		CategoryID: q.Get("category"),
		Featured:   q.Get("featured") == "true",
		OnSale:     q.Get("on_sale") == "true",
		Search:     q.Get("search"),
		Ordering:   q.Get("ordering"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	if narrow != nil {
		narrow(&filter)
	}

	products, count, err := h.productRepo.GetProducts(req.Context(), filter)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		_ = h.render.JSON(w, http.StatusInternalServerError, M{"error": "something went wrong"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, M{
		"products": products,
		"count":    count,
		"page":     page,
		"limit":    limit,
	})
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, req *http.Request) {
	slug := mux.Vars(req)["slug"]

	product, err := h.productRepo.GetBySlug(req.Context(), slug)
	if err != nil {
		zap.L().Error("failed to load product", zap.String("slug", slug), zap.Error(err))
		_ = h.render.JSON(w, http.StatusInternalServerError, M{"error": "something went wrong"})
		return
	}
	if product == nil {
		respondError(h.render, w, services.ErrProductNotFound)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, M{"product": product})
}
