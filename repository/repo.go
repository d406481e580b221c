package repository

import (
	"context"
	"database/sql"
	"errors"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"lesson-generator/constant"
	"lesson-generator/entities"
	"time"
)

var ErrLessonNotFound = errors.New("lesson not found")

type LessonRepository interface {
	GetDB() *gorm.DB
	Migrate(ctx context.Context) error
	CreateLesson(ctx context.Context, lesson *entities.Lesson) error
	FindLessonById(ctx context.Context, id uuid.UUID) (*entities.Lesson, error)
	ListLessons(ctx context.Context) ([]*entities.Lesson, error)
	// UpdateLessonFromStatus applies updates only while the lesson is still in status from.
	// It reports whether a row was changed.
	UpdateLessonFromStatus(ctx context.Context, id uuid.UUID, from constant.LessonStatus, updates map[string]interface{}) (bool, error)
	DeleteLesson(ctx context.Context, id uuid.UUID) error
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) (LessonRepository, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	if err != nil {
		return nil, err
	}

	return NewGormRepo(gormDB), nil
}

func NewGormRepo(db *gorm.DB) LessonRepository {
	return &repo{
		db: db,
	}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) Migrate(ctx context.Context) error {
	return r.GetDB().WithContext(ctx).AutoMigrate(&entities.Lesson{})
}

func (r *repo) CreateLesson(ctx context.Context, lesson *entities.Lesson) error {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = lesson.CreatedAt

	return r.GetDB().WithContext(ctx).Create(lesson).Error
}

func (r *repo) FindLessonById(ctx context.Context, id uuid.UUID) (*entities.Lesson, error) {
	lesson := &entities.Lesson{}
	err := r.GetDB().WithContext(ctx).First(lesson, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	return lesson, nil
}

func (r *repo) ListLessons(ctx context.Context) ([]*entities.Lesson, error) {
	lessons := make([]*entities.Lesson, 0)
	err := r.GetDB().WithContext(ctx).Order("created_at DESC").Find(&lessons).Error
	if err != nil {
		return nil, err
	}

	return lessons, nil
}

func (r *repo) UpdateLessonFromStatus(ctx context.Context, id uuid.UUID, from constant.LessonStatus, updates map[string]interface{}) (bool, error) {
	values := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values["updated_at"] = time.Now().UTC()

	result := r.GetDB().WithContext(ctx).
		Model(&entities.Lesson{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *repo) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	result := r.GetDB().WithContext(ctx).Delete(&entities.Lesson{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLessonNotFound
	}

	return nil
}
