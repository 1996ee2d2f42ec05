package inventory

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, cat *Category) error
	UpdateCategory(ctx context.Context, cat *Category) error

	// DeleteCategory returns ErrCategoryInUse while items still reference
	// the category; references are never left dangling or nulled.
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	CreateItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ListMovements(ctx context.Context, filter MovementFilter) ([]*Movement, error)
	CreateMovement(ctx context.Context, mv *Movement) error

	CategorySummaries(ctx context.Context) ([]*CategorySummary, error)
	LowStockItems(ctx context.Context) ([]*Item, error)
	RecentMovements(ctx context.Context, days int) ([]*Movement, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ItemFilter struct {
	Search     string // matches name, sku or description
	CategoryID *uuid.UUID
	Status     StockStatus // derived-status predicate, empty for all
}

type MovementFilter struct {
	ItemID *uuid.UUID
	Limit  int
}

func (s *Service) Categories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

type CategoryParams struct {
	Name        string
	Description string
}

func (s *Service) CreateCategory(ctx context.Context, params CategoryParams) (*Category, error) {
	cat := &Category{
		Name:        params.Name,
		Description: params.Description,
	}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}

	return cat, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, params CategoryParams) error {
	return s.repo.UpdateCategory(ctx, &Category{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
	})
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) Items(ctx context.Context, filter ItemFilter) ([]*Item, error) {
	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		item.StockStatus = ClassifyStock(item.StockQuantity, item.MinStockLevel)
	}

	return items, nil
}

type CreateItemParams struct {
	Name          string
	CategoryID    *uuid.UUID
	SKU           string
	Description   string
	Price         float64
	StockQuantity int
	MinStockLevel int
	Status        string
}

func (s *Service) CreateItem(ctx context.Context, params CreateItemParams) (*Item, error) {
	item := &Item{
		Name:          params.Name,
		CategoryID:    params.CategoryID,
		SKU:           params.SKU,
		Description:   params.Description,
		Price:         params.Price,
		StockQuantity: params.StockQuantity,
		MinStockLevel: params.MinStockLevel,
		Status:        params.Status,
	}
	if item.Status == "" {
		item.Status = "active"
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	item.StockStatus = ClassifyStock(item.StockQuantity, item.MinStockLevel)

	return item, nil
}

type UpdateItemParams struct {
	Name          *string
	CategoryID    *uuid.UUID
	SKU           *string
	Description   *string
	Price         *float64
	StockQuantity *int
	MinStockLevel *int
	Status        *string
}

func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, params UpdateItemParams) (*Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		item.Name = *params.Name
	}

	if params.CategoryID != nil {
		item.CategoryID = params.CategoryID
	}

	if params.SKU != nil {
		item.SKU = *params.SKU
	}

	if params.Description != nil {
		item.Description = *params.Description
	}

	if params.Price != nil {
		item.Price = *params.Price
	}

	if params.StockQuantity != nil {
		item.StockQuantity = *params.StockQuantity
	}

	if params.MinStockLevel != nil {
		item.MinStockLevel = *params.MinStockLevel
	}

	if params.Status != nil {
		item.Status = *params.Status
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	item.StockStatus = ClassifyStock(item.StockQuantity, item.MinStockLevel)

	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, id)
}

func (s *Service) Movements(ctx context.Context, filter MovementFilter) ([]*Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	return s.repo.ListMovements(ctx, filter)
}

type MovementParams struct {
	ItemID    uuid.UUID
	Type      MovementType
	Quantity  int
	Reference string
	Notes     string
	Actor     string
}

func (s *Service) RecordMovement(ctx context.Context, params MovementParams) (*Movement, error) {
	mv := &Movement{
		ItemID:    params.ItemID,
		Type:      params.Type,
		Quantity:  params.Quantity,
		Reference: params.Reference,
		Notes:     params.Notes,
		CreatedBy: params.Actor,
	}
	if err := s.repo.CreateMovement(ctx, mv); err != nil {
		return nil, err
	}

	return mv, nil
}

func (s *Service) StockSummary(ctx context.Context) ([]*CategorySummary, error) {
	return s.repo.CategorySummaries(ctx)
}

func (s *Service) LowStock(ctx context.Context) ([]*Item, error) {
	items, err := s.repo.LowStockItems(ctx)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		item.StockStatus = ClassifyStock(item.StockQuantity, item.MinStockLevel)
	}

	return items, nil
}

func (s *Service) RecentMovements(ctx context.Context, days int) ([]*Movement, error) {
	if days <= 0 {
		days = 30
	}

	return s.repo.RecentMovements(ctx, days)
}
