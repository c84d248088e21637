package implementation

import (
	"context"

	"ai-studyaid-be/internal/entity"
	"ai-studyaid-be/internal/mapper"
	"ai-studyaid-be/internal/model"
	"ai-studyaid-be/internal/repository/contract"
	"ai-studyaid-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvidenceRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StudyMapper
}

func NewEvidenceRecordRepository(db *gorm.DB) contract.EvidenceRecordRepository {
	return &EvidenceRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewStudyMapper(),
	}
}

func (r *EvidenceRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EvidenceRecordRepositoryImpl) CreateBulk(ctx context.Context, records []*entity.EvidenceRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]*model.EvidenceRecord, len(records))
	for i, rec := range records {
		models[i] = r.mapper.EvidenceToModel(rec)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *EvidenceRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EvidenceRecord, error) {
	var models []*model.EvidenceRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.EvidenceRecord, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EvidenceToEntity(m)
	}
	return entities, nil
}

func (r *EvidenceRecordRepositoryImpl) DeleteByImageId(ctx context.Context, imageId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("image_id = ?", imageId).Delete(&model.EvidenceRecord{}).Error
}
