package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/pagination"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

// CatalogService serves the shop listing and the item administration.
type CatalogService struct {
	tx        ports.TransactionManager
	items     ports.ItemRepository
	images    ports.ImageRepository
	paginator pagination.Paginator
	log       zerolog.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(
	tx ports.TransactionManager,
	items ports.ItemRepository,
	images ports.ImageRepository,
	paginator pagination.Paginator,
	log zerolog.Logger,
) *CatalogService {
	if paginator.PageSize() <= 0 {
		paginator = pagination.New(pagination.DefaultPageSize)
	}
	return &CatalogService{tx: tx, items: items, images: images, paginator: paginator, log: log}
}

// ListPage returns the items of the requested page. Out-of-range pages are
// clamped by the paginator, never rejected.
func (s *CatalogService) ListPage(ctx context.Context, page int) (*ports.CatalogPage, error) {
	total, err := s.items.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	p := s.paginator.Paginate(total, page)
	items := []*domain.Item{}
	if p.Count() > 0 {
		items, err = s.items.ListSlice(ctx, p.BeginIndex, p.Count())
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
	}

	return &ports.CatalogPage{Items: items, Page: p}, nil
}

func (s *CatalogService) ListAll(ctx context.Context) ([]*domain.Item, error) {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, in ports.ItemInput) (*domain.Item, error) {
	if err := validateItem(in); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	now := time.Now().UTC()
	item := &domain.Item{CreatedAt: now}
	applyItemInput(item, in, now)

	if err := s.items.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.log.Info().Int64("item_id", item.ID).Str("name", item.Name).Msg("item created")
	return item, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, id int64, in ports.ItemInput) (*domain.Item, error) {
	if err := validateItem(in); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	applyItemInput(item, in, time.Now().UTC())

	if err := s.items.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// DeleteItem removes the item, its images and any cart lines holding it.
// Existing orders keep their snapshot and show the line as a removed item.
func (s *CatalogService) DeleteItem(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.TxRepos) error {
		if _, err := r.Items().GetByID(ctx, id); err != nil {
			return err
		}
		if err := r.Images().DeleteByItem(ctx, id); err != nil {
			return fmt.Errorf("delete images: %w", err)
		}
		if err := r.Carts().DeleteByItem(ctx, id); err != nil {
			return fmt.Errorf("delete cart lines: %w", err)
		}
		return r.Items().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.log.Info().Int64("item_id", id).Msg("item deleted")
	return nil
}

func (s *CatalogService) AddImage(ctx context.Context, itemID int64, contentType string, data []byte) (*domain.ItemImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("add image: %w", &domain.ValidationError{Reason: domain.ReasonImage, Value: "empty body"})
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("add image: %w", &domain.ValidationError{Reason: domain.ReasonImage, Value: contentType})
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, fmt.Errorf("add image: %w", err)
	}

	image := &domain.ItemImage{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		ContentType: contentType,
		Data:        data,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.images.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("add image: %w", err)
	}
	return image, nil
}

func (s *CatalogService) ListImages(ctx context.Context, itemID int64) ([]*domain.ItemImage, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	images, err := s.images.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

func (s *CatalogService) GetImage(ctx context.Context, id string) (*domain.ItemImage, error) {
	image, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return image, nil
}

func (s *CatalogService) DeleteImage(ctx context.Context, id string) error {
	if err := s.images.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func validateItem(in ports.ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &domain.ValidationError{Reason: domain.ReasonItemFields, Value: "name is required"}
	}
	if in.Price.IsNegative() {
		return &domain.ValidationError{Reason: domain.ReasonItemFields, Value: "price must not be negative"}
	}
	return nil
}

func applyItemInput(item *domain.Item, in ports.ItemInput, now time.Time) {
	item.Name = strings.TrimSpace(in.Name)
	item.Description = strings.TrimSpace(in.Description)
	item.Price = in.Price.Round(2)
	item.Category = strings.TrimSpace(in.Category)
	item.Available = in.Available
	item.UpdatedAt = now
}
