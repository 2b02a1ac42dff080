package models

import "time"

const StudentTable = "inv_students"

type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"column:student_name;size:200;not null;index" json:"name"`
	Number     string    `gorm:"column:student_number;size:50;uniqueIndex;not null" json:"number"`
	Email      string    `gorm:"size:255" json:"email,omitempty"`
	Phone      string    `gorm:"size:40" json:"phone,omitempty"`
	Department string    `gorm:"size:120" json:"department,omitempty"`
	IsActive   bool      `gorm:"not null" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Student) TableName() string { return StudentTable }
