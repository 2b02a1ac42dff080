package db

import (
	"context"
	"lab_inventory/models"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db, now: time.Now} }

// WithClock swaps the time source, used by tests and the one-shot sweep.
func (r *Repo) WithClock(now func() time.Time) *Repo {
	return &Repo{DB: r.DB, now: now}
}

// Now is the repo's notion of the current time.
func (r *Repo) Now() time.Time { return r.now() }

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports row locks.
// sqlite serialises writers on its own.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// likePattern turns user input into a case-insensitive substring pattern,
// escaping LIKE wildcards so they match literally.
func likePattern(q string) string {
	esc := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(q))
	return "%" + esc + "%"
}

// Students

// 列表（分页 + 关键词，关键词匹配姓名/学号）
type ListStudentsResult struct {
	Students []models.Student `json:"students"`
	Total    int64            `json:"total"`
}

func (r *Repo) ListStudents(ctx context.Context, q string, page, size int) (ListStudentsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 50
	}

	tx := r.DB.WithContext(ctx).Model(&models.Student{}).Where("is_active = ?", true)
	if q = strings.TrimSpace(q); q != "" {
		like := likePattern(q)
		tx = tx.Where(`LOWER(student_name) LIKE ? ESCAPE '\' OR LOWER(student_number) LIKE ? ESCAPE '\'`, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListStudentsResult{}, wrap("count students", err)
	}

	var students []models.Student
	if err := tx.
		Order("student_name ASC").Order("id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&students).Error; err != nil {
		return ListStudentsResult{}, wrap("list students", err)
	}
	return ListStudentsResult{Students: students, Total: total}, nil
}

func (r *Repo) FindStudentByID(ctx context.Context, id uint) (*models.Student, error) {
	var s models.Student
	if err := r.DB.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, wrap("find student", notFound(err, "student", id))
	}
	return &s, nil
}

// ListActiveStudents returns every active student by name, unpaginated.
func (r *Repo) ListActiveStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("student_name ASC").Order("id ASC").
		Find(&students).Error; err != nil {
		return nil, wrap("list students", err)
	}
	return students, nil
}
