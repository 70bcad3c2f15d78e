package catalog

import (
	"context"
	"errors"

	"Go-Recipe-Backend/domain"
	"Go-Recipe-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CatalogService interface {
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTagDetail(ctx context.Context, id string) (domain.TagResponse, error)
		CreateTag(ctx context.Context, req domain.CreateTagRequest, role string) (domain.TagResponse, error)
		DeleteTag(ctx context.Context, id string, role string) error

		GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error)
		GetIngredientDetail(ctx context.Context, id string) (domain.IngredientResponse, error)
		CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest, role string) (domain.IngredientResponse, error)
		UpdateIngredient(ctx context.Context, req domain.UpdateIngredientRequest, id string, role string) (domain.IngredientResponse, error)
		DeleteIngredient(ctx context.Context, id string, role string) error
	}

	catalogService struct {
		catalogRepository CatalogRepository
	}
)

func NewCatalogService(catalogRepository CatalogRepository) CatalogService {
	return &catalogService{catalogRepository: catalogRepository}
}

func (s *catalogService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.catalogRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		res = append(res, tagResponse(tag))
	}
	return res, nil
}

func (s *catalogService) GetTagDetail(ctx context.Context, id string) (domain.TagResponse, error) {
	tag, err := s.catalogRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TagResponse{}, domain.ErrTagNotFound
		}
		return domain.TagResponse{}, err
	}
	return tagResponse(tag), nil
}

func (s *catalogService) CreateTag(ctx context.Context, req domain.CreateTagRequest, role string) (domain.TagResponse, error) {
	if entities.Role(role) != entities.RoleAdmin {
		return domain.TagResponse{}, domain.ErrUserNotAllowed
	}

	nameTaken, colorTaken, slugTaken, err := s.catalogRepository.CountTagConflicts(ctx, req.Name, req.Color, req.Slug)
	if err != nil {
		return domain.TagResponse{}, err
	}
	switch {
	case nameTaken:
		return domain.TagResponse{}, domain.ErrTagNameAlreadyExists
	case colorTaken:
		return domain.TagResponse{}, domain.ErrTagColorAlreadyExists
	case slugTaken:
		return domain.TagResponse{}, domain.ErrTagSlugAlreadyExists
	}

	tag := entities.Tag{
		ID:    uuid.New(),
		Name:  req.Name,
		Color: req.Color,
		Slug:  req.Slug,
	}
	if err := s.catalogRepository.CreateTag(ctx, &tag); err != nil {
		return domain.TagResponse{}, err
	}
	return tagResponse(&tag), nil
}

func (s *catalogService) DeleteTag(ctx context.Context, id string, role string) error {
	if entities.Role(role) != entities.RoleAdmin {
		return domain.ErrUserNotAllowed
	}

	if _, err := s.catalogRepository.GetTagByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTagNotFound
		}
		return err
	}
	return s.catalogRepository.DeleteTag(ctx, id)
}

func (s *catalogService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.catalogRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		res = append(res, ingredientResponse(ingredient))
	}
	return res, nil
}

func (s *catalogService) GetIngredientDetail(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredient, err := s.catalogRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientNotFound
		}
		return domain.IngredientResponse{}, err
	}
	return ingredientResponse(ingredient), nil
}

func (s *catalogService) CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest, role string) (domain.IngredientResponse, error) {
	if entities.Role(role) != entities.RoleAdmin {
		return domain.IngredientResponse{}, domain.ErrUserNotAllowed
	}

	ingredient := entities.Ingredient{
		ID:              uuid.New(),
		Name:            req.Name,
		MeasurementUnit: req.MeasurementUnit,
	}
	if err := s.catalogRepository.CreateIngredient(ctx, &ingredient); err != nil {
		return domain.IngredientResponse{}, err
	}
	return ingredientResponse(&ingredient), nil
}

func (s *catalogService) UpdateIngredient(ctx context.Context, req domain.UpdateIngredientRequest, id string, role string) (domain.IngredientResponse, error) {
	if entities.Role(role) != entities.RoleAdmin {
		return domain.IngredientResponse{}, domain.ErrUserNotAllowed
	}

	ingredient, err := s.catalogRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientNotFound
		}
		return domain.IngredientResponse{}, err
	}

	if req.Name != "" {
		ingredient.Name = req.Name
	}
	if req.MeasurementUnit != "" {
		ingredient.MeasurementUnit = req.MeasurementUnit
	}

	if err := s.catalogRepository.UpdateIngredient(ctx, ingredient); err != nil {
		return domain.IngredientResponse{}, err
	}
	return ingredientResponse(ingredient), nil
}

func (s *catalogService) DeleteIngredient(ctx context.Context, id string, role string) error {
	if entities.Role(role) != entities.RoleAdmin {
		return domain.ErrUserNotAllowed
	}

	if _, err := s.catalogRepository.GetIngredientByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrIngredientNotFound
		}
		return err
	}
	return s.catalogRepository.DeleteIngredient(ctx, id)
}

func tagResponse(tag *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    tag.ID.String(),
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}

func ingredientResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ingredient.ID.String(),
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}
