package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"prephub/internal/common"
	"prephub/internal/domain/model"
)

// In-memory repository implementations backing service tests. They honor the
// same error contracts as the DynamoDB implementations.

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User // keyed by email
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]model.User)}
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) Put(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Email] = *user
	return nil
}

func (r *MemoryUserRepository) Any(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users) > 0, nil
}

type MemoryProblemRepository struct {
	mu       sync.Mutex
	problems map[string]model.Problem
	order    []string
}

func NewMemoryProblemRepository() *MemoryProblemRepository {
	return &MemoryProblemRepository{problems: make(map[string]model.Problem)}
}

func (r *MemoryProblemRepository) Put(_ context.Context, problem *model.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.problems[problem.ProblemID]; !exists {
		r.order = append(r.order, problem.ProblemID)
	}
	r.problems[problem.ProblemID] = *problem
	return nil
}

func (r *MemoryProblemRepository) FindByID(_ context.Context, problemID string) (*model.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	problem, ok := r.problems[problemID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &problem, nil
}

func (r *MemoryProblemRepository) FindAll(_ context.Context) ([]model.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Problem, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.problems[id])
	}
	return out, nil
}

func (r *MemoryProblemRepository) FindByLevel(ctx context.Context, level string) ([]model.Problem, error) {
	all, _ := r.FindAll(ctx)
	out := []model.Problem{}
	for _, problem := range all {
		if problem.Level == level {
			out = append(out, problem)
		}
	}
	return out, nil
}

func (r *MemoryProblemRepository) Delete(_ context.Context, problemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.problems, problemID)
	for i, id := range r.order {
		if id == problemID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type MemoryProgressRepository struct {
	mu      sync.Mutex
	records map[string]model.UserProgress
}

func NewMemoryProgressRepository() *MemoryProgressRepository {
	return &MemoryProgressRepository{records: make(map[string]model.UserProgress)}
}

func (r *MemoryProgressRepository) Find(_ context.Context, userID string) (*model.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := cloneProgress(record)
	return &clone, nil
}

func (r *MemoryProgressRepository) Put(_ context.Context, progress *model.UserProgress, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.records[progress.UserID]
	if expectedVersion == 0 {
		if exists {
			return fmt.Errorf("progress record already exists: %w", common.ErrConflict)
		}
	} else if !exists || current.Version != expectedVersion {
		return fmt.Errorf("progress record was modified concurrently: %w", common.ErrConflict)
	}
	progress.Version = expectedVersion + 1
	r.records[progress.UserID] = cloneProgress(*progress)
	return nil
}

func (r *MemoryProgressRepository) FindAll(_ context.Context) ([]model.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.UserProgress, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, cloneProgress(record))
	}
	return out, nil
}

// cloneProgress isolates stored state from caller mutations the way the
// DynamoDB implementation's marshal round trip does.
func cloneProgress(record model.UserProgress) model.UserProgress {
	clone := record
	clone.SolvedProblems = append([]string(nil), record.SolvedProblems...)
	clone.ProgressByLevel = make(map[string]model.LevelProgress, len(record.ProgressByLevel))
	for level, levelProgress := range record.ProgressByLevel {
		levelProgress.Solved = append([]string(nil), levelProgress.Solved...)
		clone.ProgressByLevel[level] = levelProgress
	}
	return clone
}

type MemoryProductRepository struct {
	mu       sync.Mutex
	products map[string]model.TechProduct
	order    []string
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[string]model.TechProduct)}
}

func (r *MemoryProductRepository) Put(_ context.Context, product *model.TechProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[product.ProductID]; !exists {
		r.order = append(r.order, product.ProductID)
	}
	r.products[product.ProductID] = *product
	return nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, productID string) (*model.TechProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &product, nil
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]model.TechProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(), nil
}

func (r *MemoryProductRepository) snapshotLocked() []model.TechProduct {
	out := make([]model.TechProduct, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out
}

func (r *MemoryProductRepository) FindByCategory(ctx context.Context, category string) ([]model.TechProduct, error) {
	all, _ := r.FindAll(ctx)
	out := []model.TechProduct{}
	for _, product := range all {
		if product.Category == category {
			out = append(out, product)
		}
	}
	return out, nil
}

func (r *MemoryProductRepository) Search(ctx context.Context, term string) ([]model.TechProduct, error) {
	all, _ := r.FindAll(ctx)
	out := []model.TechProduct{}
	for _, product := range all {
		if strings.Contains(product.Name, term) || strings.Contains(product.Brand, term) {
			out = append(out, product)
		}
	}
	return out, nil
}

func (r *MemoryProductRepository) Update(_ context.Context, productID string, updates map[string]interface{}) (*model.TechProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return nil, common.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "name":
			product.Name = value.(string)
		case "brand":
			product.Brand = value.(string)
		case "category":
			product.Category = value.(string)
		case "price":
			product.Price = value.(float64)
		case "rating":
			product.Rating = value.(float64)
		case "specs":
			product.Specs = value.([]string)
		case "description":
			product.Description = value.(string)
		case "affiliateLink":
			product.AffiliateLink = value.(string)
		case "imageUrl":
			product.ImageURL = value.(string)
		}
	}
	product.UpdatedAt = time.Now().UTC()
	r.products[productID] = product
	return &product, nil
}

func (r *MemoryProductRepository) Page(_ context.Context, limit int32, startKey string) (*model.ProductPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := 0
	if startKey != "" {
		for i, id := range r.order {
			if id == startKey {
				start = i + 1
				break
			}
		}
	}

	page := &model.ProductPage{Items: []model.TechProduct{}}
	for i := start; i < len(r.order) && len(page.Items) < int(limit); i++ {
		page.Items = append(page.Items, r.products[r.order[i]])
	}
	if n := len(page.Items); n > 0 && start+n < len(r.order) {
		page.LastEvaluatedKey = page.Items[n-1].ProductID
		page.HasMore = true
	}
	return page, nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, productID)
	for i, id := range r.order {
		if id == productID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
