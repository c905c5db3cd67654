package implementation

import (
	"context"
	"errors"

	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/mapper"
	"ai-compliance-be/internal/model"
	"ai-compliance-be/internal/repository/contract"
	"ai-compliance-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArticleMapper
}

func NewArticleRepository(db *gorm.DB) contract.ArticleRepository {
	return &ArticleRepositoryImpl{
		db:     db,
		mapper: mapper.NewArticleMapper(),
	}
}

func (r *ArticleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ArticleRepositoryImpl) Upsert(ctx context.Context, article *entity.Article) error {
	m := r.mapper.ToModel(article)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "chapter", "content", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*article = *r.mapper.ToEntity(m)
	return nil
}

func (r *ArticleRepositoryImpl) FindByNumber(ctx context.Context, number string) (*entity.Article, error) {
	var m model.Article
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ArticleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Article, error) {
	var models []*model.Article
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Article, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ArticleRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Article{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
