package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shopfront/shopfront/internal/media"
)

const (
	// FeaturedCacheKey holds the JSON encoded featured product list.
	FeaturedCacheKey   = "featured_products"
	recommendationSize = 4
	imageFolder        = "products"
)

var (
	// ErrNoFeatured is returned when no product is flagged as featured.
	ErrNoFeatured = errors.New("no featured products found")
	// ErrInvalidProduct wraps create validation failures.
	ErrInvalidProduct = errors.New("invalid product")
)

// Service implements catalog operations with a Redis read-through cache for
// the featured list. A nil cache disables caching.
type Service struct {
	repo   Repository
	cache  *redis.Client
	media  media.Uploader
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the catalog service.
func NewService(repo Repository, cache *redis.Client, uploader media.Uploader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, media: uploader, logger: logger, now: time.Now}
}

// Repository exposes the product store for packages that join on products.
func (s *Service) Repository() Repository {
	return s.repo
}

// CreateInput is the admin create payload.
type CreateInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
	Category    string
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Featured serves the featured list from cache, loading and caching it on a miss.
func (s *Service) Featured(ctx context.Context) ([]Product, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, FeaturedCacheKey).Bytes()
		switch {
		case err == nil:
			var cached []Product
			decodeErr := json.Unmarshal(raw, &cached)
			if decodeErr == nil {
				return cached, nil
			}
			s.logger.Warn("catalog.featured cache decode failed", slog.Any("error", decodeErr))
		case !errors.Is(err, redis.Nil):
			s.logger.Warn("catalog.featured cache read failed", slog.Any("error", err))
		}
	}

	products, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNoFeatured
	}
	s.storeFeatured(ctx, products)
	return products, nil
}

func (s *Service) Recommendations(ctx context.Context) ([]Summary, error) {
	products, err := s.repo.Sample(ctx, recommendationSize)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(products))
	for _, p := range products {
		out = append(out, p.Summary())
	}
	return out, nil
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

// Create validates the input, uploads an optional image and stores the product.
func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	switch {
	case in.Name == "":
		return Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case in.Category == "":
		return Product{}, fmt.Errorf("%w: category is required", ErrInvalidProduct)
	case in.Price < 0:
		return Product{}, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	now := s.now().UTC()
	product := Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if in.Image != "" {
		data, contentType, err := media.DecodeImage(in.Image)
		if err != nil {
			return Product{}, fmt.Errorf("%w: %w", ErrInvalidProduct, err)
		}
		obj, err := s.media.Upload(ctx, imageFolder, data, contentType)
		if err != nil {
			return Product{}, err
		}
		product.Image = obj.URL
		product.ImageKey = obj.Key
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if product.ImageKey != "" {
			if delErr := s.media.Delete(ctx, product.ImageKey); delErr != nil {
				s.logger.Warn("catalog.create image cleanup failed", slog.String("image_key", product.ImageKey), slog.Any("error", delErr))
			}
		}
		return Product{}, err
	}
	return product, nil
}

// ToggleFeatured flips the featured flag and rewrites the cached list.
func (s *Service) ToggleFeatured(ctx context.Context, id string) (Product, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	updated, err := s.repo.SetFeatured(ctx, id, !current.IsFeatured)
	if err != nil {
		return Product{}, err
	}
	s.refreshFeatured(ctx)
	return updated, nil
}

// Delete removes the product and its image.
func (s *Service) Delete(ctx context.Context, id string) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if product.ImageKey != "" {
		if err := s.media.Delete(ctx, product.ImageKey); err != nil {
			s.logger.Warn("catalog.delete image cleanup failed", slog.String("product_id", id), slog.Any("error", err))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if product.IsFeatured {
		s.refreshFeatured(ctx)
	}
	return nil
}

func (s *Service) refreshFeatured(ctx context.Context) {
	if s.cache == nil {
		return
	}
	products, err := s.repo.ListFeatured(ctx)
	if err != nil {
		s.logger.Warn("catalog.featured refresh failed", slog.Any("error", err))
		return
	}
	if len(products) == 0 {
		if err := s.cache.Del(ctx, FeaturedCacheKey).Err(); err != nil {
			s.logger.Warn("catalog.featured cache clear failed", slog.Any("error", err))
		}
		return
	}
	s.storeFeatured(ctx, products)
}

func (s *Service) storeFeatured(ctx context.Context, products []Product) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(products)
	if err != nil {
		s.logger.Warn("catalog.featured encode failed", slog.Any("error", err))
		return
	}
	if err := s.cache.Set(ctx, FeaturedCacheKey, payload, 0).Err(); err != nil {
		s.logger.Warn("catalog.featured cache write failed", slog.Any("error", err))
	}
}
