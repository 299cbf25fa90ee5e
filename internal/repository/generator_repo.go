package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
)

// GeneratorRepository generator data access.
type GeneratorRepository interface {
	Create(ctx context.Context, g *model.Generator) error
	GetByID(ctx context.Context, id string) (*model.Generator, error)
	Update(ctx context.Context, g *model.Generator) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, name string, page Page) ([]model.Generator, int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Generator, error)
}

type generatorRepo struct {
	db *gorm.DB
}

// NewGeneratorRepo creates a GeneratorRepository.
func NewGeneratorRepo(db *gorm.DB) GeneratorRepository {
	return &generatorRepo{db: db}
}

func (r *generatorRepo) Create(ctx context.Context, g *model.Generator) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *generatorRepo) GetByID(ctx context.Context, id string) (*model.Generator, error) {
	var g model.Generator
	if err := r.db.WithContext(ctx).Where("generator_id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *generatorRepo) Update(ctx context.Context, g *model.Generator) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *generatorRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("generator_id = ?", id).Delete(&model.Generator{}).Error
}

func (r *generatorRepo) List(ctx context.Context, name string, page Page) ([]model.Generator, int64, error) {
	var gens []model.Generator
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Generator{})
	if name != "" {
		db = db.Where("name ILIKE ?", "%"+name+"%")
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(db).Order("name ASC").Find(&gens).Error; err != nil {
		return nil, 0, err
	}
	return gens, total, nil
}

func (r *generatorRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Generator, error) {
	var gens []model.Generator
	if len(ids) == 0 {
		return gens, nil
	}
	err := r.db.WithContext(ctx).Where("generator_id IN ?", ids).Find(&gens).Error
	return gens, err
}
