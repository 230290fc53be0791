package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/interview-trainer-api/internal/interview"
	"github.com/noah-isme/interview-trainer-api/internal/models"
)

// InterviewRepository persists interviews and their responses.
type InterviewRepository interface {
	interview.Gateway
	ListCompletedByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Interview, int64, error)
	GetWithResponses(ctx context.Context, id uint) (models.Interview, error)
}

// NewInterviewRepository constructs an interview repository.
func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

type interviewRepository struct {
	db *gorm.DB
}

func (r *interviewRepository) WithinTransaction(ctx context.Context, fn func(interview.Gateway) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&interviewRepository{db: tx})
	})
}

func (r *interviewRepository) CreateInterview(ctx context.Context, userID uint, role interview.Role, questions []string) (uint, error) {
	encoded, err := json.Marshal(questions)
	if err != nil {
		return 0, fmt.Errorf("encode questions: %w", err)
	}

	record := models.Interview{
		UserID:    userID,
		Role:      string(role),
		Questions: datatypes.JSON(encoded),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func (r *interviewRepository) AppendResponse(ctx context.Context, interviewID uint, record interview.QuestionRecord) error {
	response := models.InterviewResponse{
		InterviewID: interviewID,
		Question:    record.Question,
		Answer:      record.Answer,
		Feedback:    record.Feedback,
		Score:       record.Score,
	}
	return r.db.WithContext(ctx).Create(&response).Error
}

func (r *interviewRepository) FinalizeInterview(ctx context.Context, interviewID uint, score, durationSeconds int, completedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Interview{}).
		Where("id = ? AND completed_at IS NULL", interviewID).
		Updates(map[string]interface{}{
			"score":        score,
			"duration":     durationSeconds,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("finalize interview %d: %w", interviewID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *interviewRepository) ListCompletedByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Interview, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.Interview{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var interviews []models.Interview
	err := query.Order("completed_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&interviews).Error
	if err != nil {
		return nil, 0, err
	}
	return interviews, total, nil
}

func (r *interviewRepository) GetWithResponses(ctx context.Context, id uint) (models.Interview, error) {
	var record models.Interview
	err := r.db.WithContext(ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&record, id).Error
	if err != nil {
		return models.Interview{}, err
	}
	return record, nil
}
