package domain

import (
	"errors"
)

var (
	MessageSuccessGetTags          = "success get tags"
	MessageSuccessGetTagDetail     = "success get tag detail"
	MessageSuccessCreateTag        = "tag created successfully"
	MessageSuccessDeleteTag        = "tag deleted successfully"
	MessageSuccessGetIngredients   = "success get ingredients"
	MessageSuccessGetIngredient    = "success get ingredient detail"
	MessageSuccessCreateIngredient = "ingredient created successfully"
	MessageSuccessUpdateIngredient = "ingredient updated successfully"
	MessageSuccessDeleteIngredient = "ingredient deleted successfully"

	MessageFailedGetTags          = "failed to get tags"
	MessageFailedGetTagDetail     = "failed to get tag detail"
	MessageFailedCreateTag        = "failed to create tag"
	MessageFailedDeleteTag        = "failed to delete tag"
	MessageFailedGetIngredients   = "failed to get ingredients"
	MessageFailedGetIngredient    = "failed to get ingredient detail"
	MessageFailedCreateIngredient = "failed to create ingredient"
	MessageFailedUpdateIngredient = "failed to update ingredient"
	MessageFailedDeleteIngredient = "failed to delete ingredient"

	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")

	ErrTagNameAlreadyExists  = ValidationError{Field: "name", Message: "tag name already exists"}
	ErrTagColorAlreadyExists = ValidationError{Field: "color", Message: "tag color already exists"}
	ErrTagSlugAlreadyExists  = ValidationError{Field: "slug", Message: "tag slug already exists"}
)

type (
	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	CreateTagRequest struct {
		Name  string `json:"name" validate:"required,max=200"`
		Color string `json:"color" validate:"required,max=8"`
		Slug  string `json:"slug" validate:"required,max=200"`
	}

	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	CreateIngredientRequest struct {
		Name            string `json:"name" validate:"required,max=200"`
		MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
	}

	UpdateIngredientRequest struct {
		Name            string `json:"name" validate:"omitempty,max=200"`
		MeasurementUnit string `json:"measurement_unit" validate:"omitempty,max=200"`
	}
)
