package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Store is everything the HTTP layer needs from persistence.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int) (*Category, error)

	// ListQuestions returns questions ordered by id. categoryID 0 means all categories.
	ListQuestions(ctx context.Context, categoryID int) ([]Question, error)
	// SearchQuestions matches term as a case-insensitive substring of the question text.
	SearchQuestions(ctx context.Context, term string) ([]Question, error)
	CountQuestions(ctx context.Context) (int64, error)
	GetQuestion(ctx context.Context, id int) (*Question, error)
	CreateQuestion(ctx context.Context, q *Question) error
	DeleteQuestion(ctx context.Context, id int) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListCategories(ctx context.Context) ([]Category, error) {
	var cs []Category
	if err := s.db.WithContext(ctx).Order("id").Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cs, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id int) (*Category, error) {
	var c Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &c, nil
}

func (s *GormStore) ListQuestions(ctx context.Context, categoryID int) ([]Question, error) {
	q := s.db.WithContext(ctx).Order("id")
	if categoryID != 0 {
		q = q.Where("category = ?", categoryID)
	}
	var qs []Question
	if err := q.Find(&qs).Error; err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}

func (s *GormStore) SearchQuestions(ctx context.Context, term string) ([]Question, error) {
	// SQLite's LIKE folds ASCII case only; Postgres needs ILIKE to fold at all.
	op := "LIKE"
	if s.db.Dialector.Name() == "postgres" {
		op = "ILIKE"
	}
	pattern := "%" + escapeLike(term) + "%"
	var qs []Question
	if err := s.db.WithContext(ctx).
		Where("question "+op+" ? ESCAPE '\\'", pattern).
		Order("id").
		Find(&qs).Error; err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	return qs, nil
}

func (s *GormStore) CountQuestions(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Question{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (s *GormStore) GetQuestion(ctx context.Context, id int) (*Question, error) {
	var q Question
	if err := s.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}
	return &q, nil
}

func (s *GormStore) CreateQuestion(ctx context.Context, q *Question) error {
	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteQuestion(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&Question{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete question %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// SeedCategories and SeedQuestions load fixture rows in one transaction each.
func (s *GormStore) SeedCategories(ctx context.Context, cs []Category) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range cs {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cs[i]).Error; err != nil {
				return fmt.Errorf("seed category %d: %w", cs[i].ID, err)
			}
		}
		return nil
	})
}

func (s *GormStore) SeedQuestions(ctx context.Context, qs []Question) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range qs {
			if err := tx.Create(&qs[i]).Error; err != nil {
				return fmt.Errorf("seed question %q: %w", qs[i].Text, err)
			}
		}
		return nil
	})
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
