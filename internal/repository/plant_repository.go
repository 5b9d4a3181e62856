// Package repository contains data access logic separated from HTTP handlers.
// This file defines the plant repository: list, lookup, create, partial
// update and delete of rows in the plants table. Every write runs inside a
// gorm transaction so a failed commit leaves no partial state behind.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/iliyamo/plant-catalog/internal/model"
)

// PlantInput carries the fields accepted when creating a plant. A nil
// pointer means the field was absent from the request.
type PlantInput struct {
	Name      *string  `json:"name"`
	Image     *string  `json:"image"`
	Price     *float64 `json:"price"`
	IsInStock *bool    `json:"is_in_stock"`
}

// PlantPatch carries a partial update. Only non-nil fields are applied;
// everything else on the stored row is left untouched.
type PlantPatch struct {
	Name      *string  `json:"name"`
	Image     *string  `json:"image"`
	Price     *float64 `json:"price"`
	IsInStock *bool    `json:"is_in_stock"`
}

func (p PlantPatch) apply(plant *model.Plant) {
	if p.IsInStock != nil {
		plant.IsInStock = *p.IsInStock
	}
	if p.Name != nil {
		plant.Name = *p.Name
	}
	if p.Image != nil {
		plant.Image = *p.Image
	}
	if p.Price != nil {
		plant.Price = *p.Price
	}
}

// PlantRepo encapsulates all database queries related to plants. It
// depends on a *gorm.DB which is opened and closed by the caller.
type PlantRepo struct {
	db *gorm.DB
}

// NewPlantRepo constructs a PlantRepo with the provided DB handle.
func NewPlantRepo(db *gorm.DB) *PlantRepo {
	return &PlantRepo{db: db}
}

// ListAll returns every plant ordered by id. An empty table yields an
// empty, non-nil slice so it serializes as [].
func (r *PlantRepo) ListAll(ctx context.Context) ([]model.Plant, error) {
	plants := []model.Plant{}
	if err := r.db.WithContext(ctx).Order("id").Find(&plants).Error; err != nil {
		return nil, storageErr("list", err)
	}
	return plants, nil
}

// GetByID fetches a plant by its id. It returns ErrPlantNotFound if no row
// matches.
func (r *PlantRepo) GetByID(ctx context.Context, id uint64) (*model.Plant, error) {
	var p model.Plant
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlantNotFound
		}
		return nil, storageErr("get", err)
	}
	return &p, nil
}

// Create inserts a new plant. Name, image and price are required;
// IsInStock defaults to true when absent. On success the returned plant
// carries the id generated by the database.
func (r *PlantRepo) Create(ctx context.Context, in PlantInput) (*model.Plant, error) {
	if in.Name == nil || in.Image == nil || in.Price == nil {
		return nil, ErrMissingFields
	}
	p := model.Plant{
		Name:      *in.Name,
		Image:     *in.Image,
		Price:     *in.Price,
		IsInStock: true,
	}
	if in.IsInStock != nil {
		p.IsInStock = *in.IsInStock
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&p).Error
	})
	if err != nil {
		return nil, storageErr("create", err)
	}
	return &p, nil
}

// Update applies patch to the plant with the given id and returns the
// stored result. It returns ErrPlantNotFound if the row does not exist.
func (r *PlantRepo) Update(ctx context.Context, id uint64, patch PlantPatch) (*model.Plant, error) {
	var p model.Plant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlantNotFound
			}
			return err
		}
		patch.apply(&p)
		return tx.Save(&p).Error
	})
	if err != nil {
		if errors.Is(err, ErrPlantNotFound) {
			return nil, err
		}
		return nil, storageErr("update", err)
	}
	return &p, nil
}

// Delete removes the plant with the given id. It returns ErrPlantNotFound
// when nothing was deleted.
func (r *PlantRepo) Delete(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Plant{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPlantNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPlantNotFound) {
			return err
		}
		return storageErr("delete", err)
	}
	return nil
}
