package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// Service exposes catalog management. Sales carry frozen snapshots, so
// price corrections here never alter recorded history.
type Service interface {
	List(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, id int64) (*models.Item, error)
	Create(ctx context.Context, input ItemInput) (*models.Item, error)
	Update(ctx context.Context, id int64, input ItemInput) (*models.Item, error)
	Delete(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
}

// ItemInput captures the editable fields of a catalog item.
type ItemInput struct {
	Name           string
	UnitPriceCents money.Cents
	Category       string
}

type service struct {
	repo Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing items")
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "loading item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return item, nil
}

func (s *service) Create(ctx context.Context, input ItemInput) (*models.Item, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:           strings.TrimSpace(input.Name),
		UnitPriceCents: input.UnitPriceCents,
		Category:       strings.TrimSpace(input.Category),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "creating item")
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, id int64, input ItemInput) (*models.Item, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "loading item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	item.Name = strings.TrimSpace(input.Name)
	item.UnitPriceCents = input.UnitPriceCents
	item.Category = strings.TrimSpace(input.Category)

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "updating item")
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "deleting item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing items")
	}

	seen := map[string]struct{}{}
	categories := []string{}
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories, nil
}

func validateInput(input ItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.UnitPriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	return nil
}
