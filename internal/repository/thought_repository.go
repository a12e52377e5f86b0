package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"happythoughts/internal/model"
)

type thoughtRepository struct {
	db *gorm.DB
}

// NewThoughtRepository builds a GORM-backed thought repository.
func NewThoughtRepository(db *gorm.DB) ThoughtRepository {
	return &thoughtRepository{db: db}
}

func (r *thoughtRepository) Create(ctx context.Context, thought *model.Thought) error {
	return r.db.WithContext(ctx).Create(thought).Error
}

func (r *thoughtRepository) ListRecent(ctx context.Context, limit int) ([]model.Thought, error) {
	thoughts := make([]model.Thought, 0, limit)
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&thoughts).Error; err != nil {
		return nil, err
	}
	return thoughts, nil
}

func (r *thoughtRepository) IncrementHearts(ctx context.Context, id string) (*model.Thought, error) {
	res := r.db.WithContext(ctx).Model(&model.Thought{}).
		Where("id = ?", id).
		UpdateColumn("hearts", gorm.Expr("hearts + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var thought model.Thought
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&thought).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &thought, nil
}

// NewGormStore migrates the schema and wires the GORM repositories.
func NewGormStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&model.User{}, &model.Thought{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	return &Store{
		Users:    NewUserRepository(db),
		Thoughts: NewThoughtRepository(db),
		ping:     sqlDB.PingContext,
		close: func(context.Context) error {
			return sqlDB.Close()
		},
	}, nil
}
