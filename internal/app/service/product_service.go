package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"prephub/internal/common"
	"prephub/internal/domain/model"
	"prephub/internal/domain/repository"
	"prephub/internal/platform/storage"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProductService struct {
	productRepo repository.ProductRepository
	objectStore storage.ObjectStore
}

func NewProductService(productRepo repository.ProductRepository, objectStore storage.ObjectStore) *ProductService {
	return &ProductService{productRepo: productRepo, objectStore: objectStore}
}

type CreateProductRequest struct {
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	Rating        float64  `json:"rating"`
	Specs         []string `json:"specs"`
	Description   string   `json:"description"`
	AffiliateLink string   `json:"affiliateLink"`
}

type UpdateProductRequest struct {
	Name          *string   `json:"name,omitempty"`
	Brand         *string   `json:"brand,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	Specs         *[]string `json:"specs,omitempty"`
	Description   *string   `json:"description,omitempty"`
	AffiliateLink *string   `json:"affiliateLink,omitempty"`
}

// ImageUpload carries a validated multipart image file bound for the object
// store.
type ImageUpload struct {
	File        io.Reader
	Size        int64
	Filename    string
	ContentType string
}

func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest, image *ImageUpload) (*model.TechProduct, error) {
	if req.Name == "" || req.Brand == "" || req.Category == "" || req.Price <= 0 {
		return nil, common.Errorf("name, brand, category and price are required: %w", common.ErrBadRequest)
	}

	imageURL := ""
	if image != nil {
		url, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	now := time.Now().UTC()
	product := &model.TechProduct{
		ProductID:     fmt.Sprintf("%s-%d", slug.Make(req.Category), now.UnixMilli()),
		Name:          req.Name,
		Brand:         req.Brand,
		Category:      req.Category,
		Price:         req.Price,
		Rating:        req.Rating,
		Specs:         req.Specs,
		Description:   req.Description,
		AffiliateLink: req.AffiliateLink,
		ImageURL:      imageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if product.Specs == nil {
		product.Specs = []string{}
	}

	if err := s.productRepo.Put(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetAllProducts(ctx context.Context) ([]model.TechProduct, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *ProductService) GetProductByID(ctx context.Context, productID string) (*model.TechProduct, error) {
	return s.productRepo.FindByID(ctx, productID)
}

func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]model.TechProduct, error) {
	return s.productRepo.FindByCategory(ctx, category)
}

func (s *ProductService) SearchProducts(ctx context.Context, term string) ([]model.TechProduct, error) {
	if term == "" {
		return nil, common.Errorf("search term is required: %w", common.ErrBadRequest)
	}
	return s.productRepo.Search(ctx, term)
}

func (s *ProductService) GetProductsPaginated(ctx context.Context, limit int, lastKey string) (*model.ProductPage, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.productRepo.Page(ctx, int32(limit), lastKey)
}

// UpdateProduct merges only the supplied fields; everything else, the product
// record keeps as stored.
func (s *ProductService) UpdateProduct(ctx context.Context, productID string, req UpdateProductRequest, image *ImageUpload) (*model.TechProduct, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Specs != nil {
		updates["specs"] = *req.Specs
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.AffiliateLink != nil {
		updates["affiliateLink"] = *req.AffiliateLink
	}

	if image != nil {
		url, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		updates["imageUrl"] = url
	}

	if len(updates) == 0 {
		return nil, common.Errorf("no fields to update: %w", common.ErrBadRequest)
	}

	return s.productRepo.Update(ctx, productID, updates)
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *ProductService) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	if s.objectStore == nil {
		return "", common.Errorf("image storage is not configured: %w", common.ErrInternalServer)
	}
	ext := strings.ToLower(filepath.Ext(image.Filename))
	key := fmt.Sprintf("tech-products/product-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	url, err := s.objectStore.Put(ctx, key, image.File, image.Size, image.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to store product image: %w", err)
	}
	return url, nil
}
