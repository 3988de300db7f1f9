package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"prephub/internal/api/middleware"
	"prephub/internal/app/service"
	"prephub/internal/common"
	"prephub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

const maxImageBytes = 5 << 20 // 5 MiB

var imageExtRegex = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	// Specific routes before the {productID} wildcard.
	r.Get("/search", h.searchProducts)
	r.Get("/paginated", h.getProductsPaginated)
	r.Get("/category/{category}", h.getProductsByCategory)
	r.Get("/{productID}", h.getProduct)
	r.Get("/", h.listProducts)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createProduct)
		adminRouter.Put("/{productID}", h.updateProduct)
		adminRouter.Delete("/{productID}", h.deleteProduct)
	})
}

type productResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Data    *model.TechProduct `json:"data,omitempty"`
}

type productListResponse struct {
	Success  bool                `json:"success"`
	Count    int                 `json:"count"`
	Category string              `json:"category,omitempty"`
	Data     []model.TechProduct `json:"data"`
}

// imageFromForm validates and wraps the optional multipart "image" field.
// The returned close function must be called after the upload is consumed.
func imageFromForm(r *http.Request) (*service.ImageUpload, func(), string) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, func() {}, ""
		}
		return nil, func() {}, "Invalid image upload"
	}
	if header.Size > maxImageBytes {
		file.Close()
		return nil, func() {}, "Image must be 5MB or smaller"
	}
	if !imageExtRegex.MatchString(header.Filename) {
		file.Close()
		return nil, func() {}, "Only image files are allowed"
	}

	upload := &service.ImageUpload{
		File:        file,
		Size:        header.Size,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	return upload, func() { file.Close() }, ""
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductRequest
	var image *service.ImageUpload
	closeImage := func() {}

	if isMultipart(r) {
		// Cap the body before parsing so an oversized upload is cut off
		// instead of being read in full.
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<20)
		if err := r.ParseMultipartForm(maxImageBytes + 1<<20); err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		var msg string
		req, msg = createRequestFromForm(r)
		if msg != "" {
			common.RespondWithError(w, http.StatusBadRequest, msg)
			return
		}
		image, closeImage, msg = imageFromForm(r)
		if msg != "" {
			common.RespondWithError(w, http.StatusBadRequest, msg)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer closeImage()

	if req.Name == "" || req.Brand == "" || req.Category == "" || req.Price <= 0 {
		common.RespondWithError(w, http.StatusBadRequest, "Missing required fields: name, brand, category, and price are required")
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), req, image)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, productResponse{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

func createRequestFromForm(r *http.Request) (service.CreateProductRequest, string) {
	req := service.CreateProductRequest{
		Name:          r.FormValue("name"),
		Brand:         r.FormValue("brand"),
		Category:      r.FormValue("category"),
		Description:   r.FormValue("description"),
		AffiliateLink: r.FormValue("affiliateLink"),
	}

	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, "price must be a number"
		}
		req.Price = price
	}
	if raw := r.FormValue("rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, "rating must be a number"
		}
		req.Rating = rating
	}
	if raw := r.FormValue("specs"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Specs); err != nil {
			return req, "specs must be a JSON array of strings"
		}
	}
	return req, ""
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetAllProducts(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, productListResponse{
		Success: true,
		Count:   len(products),
		Data:    products,
	})
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.productService.GetProductByID(r.Context(), productID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, productResponse{Success: true, Data: product})
}

func (h *ProductHandler) getProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.productService.GetProductsByCategory(r.Context(), category)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, productListResponse{
		Success:  true,
		Count:    len(products),
		Category: category,
		Data:     products,
	})
}

func (h *ProductHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Search query parameter 'q' is required")
		return
	}

	products, err := h.productService.SearchProducts(r.Context(), term)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, productListResponse{
		Success: true,
		Count:   len(products),
		Data:    products,
	})
}

func (h *ProductHandler) getProductsPaginated(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			common.RespondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	lastKey := r.URL.Query().Get("lastKey")

	page, err := h.productService.GetProductsPaginated(r.Context(), limit, lastKey)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, struct {
		Success bool               `json:"success"`
		Data    *model.ProductPage `json:"data"`
	}{Success: true, Data: page})
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req service.UpdateProductRequest
	var image *service.ImageUpload
	closeImage := func() {}

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<20)
		if err := r.ParseMultipartForm(maxImageBytes + 1<<20); err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		var msg string
		req, msg = updateRequestFromForm(r)
		if msg != "" {
			common.RespondWithError(w, http.StatusBadRequest, msg)
			return
		}
		image, closeImage, msg = imageFromForm(r)
		if msg != "" {
			common.RespondWithError(w, http.StatusBadRequest, msg)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer closeImage()

	product, err := h.productService.UpdateProduct(r.Context(), productID, req, image)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, productResponse{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

func updateRequestFromForm(r *http.Request) (service.UpdateProductRequest, string) {
	req := service.UpdateProductRequest{}
	if r.MultipartForm == nil {
		return req, ""
	}

	get := func(key string) (string, bool) {
		values, ok := r.MultipartForm.Value[key]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}

	if v, ok := get("name"); ok {
		req.Name = &v
	}
	if v, ok := get("brand"); ok {
		req.Brand = &v
	}
	if v, ok := get("category"); ok {
		req.Category = &v
	}
	if v, ok := get("description"); ok {
		req.Description = &v
	}
	if v, ok := get("affiliateLink"); ok {
		req.AffiliateLink = &v
	}
	if raw, ok := get("price"); ok {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, "price must be a number"
		}
		req.Price = &price
	}
	if raw, ok := get("rating"); ok {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, "rating must be a number"
		}
		req.Rating = &rating
	}
	if raw, ok := get("specs"); ok {
		var specs []string
		if err := json.Unmarshal([]byte(raw), &specs); err != nil {
			return req, "specs must be a JSON array of strings"
		}
		req.Specs = &specs
	}
	return req, ""
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	if err := h.productService.DeleteProduct(r.Context(), productID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, productResponse{
		Success: true,
		Message: "Product deleted successfully",
	})
}
