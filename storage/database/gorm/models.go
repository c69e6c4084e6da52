package gormrepos

import (
	"database/sql"

	"gorm.io/gorm"

	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/student"
	"github.com/trezcool/ratiba/core/teacher"
)

// Models mirror the tables created by the goose migrations, so both storage backends share one schema.
type (
	subjectModel struct {
		ID          string         `gorm:"primaryKey;size:36"`
		Name        string         `gorm:"size:100;not null;uniqueIndex"`
		Description sql.NullString `gorm:"type:text"`
	}

	teacherModel struct {
		ID        string        `gorm:"primaryKey;size:36"`
		FullName  string        `gorm:"size:150;not null"`
		SubjectID string        `gorm:"size:36;not null;index"`
		Subject   *subjectModel `gorm:"constraint:OnDelete:CASCADE"`
	}

	classModel struct {
		ID   string `gorm:"primaryKey;size:36"`
		Name string `gorm:"size:20;not null;uniqueIndex"`
	}

	studentModel struct {
		ID            string      `gorm:"primaryKey;size:36"`
		FullName      string      `gorm:"size:150;not null"`
		SchoolClassID string      `gorm:"size:36;not null;index"`
		SchoolClass   *classModel `gorm:"constraint:OnDelete:CASCADE"`
	}
)

func (subjectModel) TableName() string { return "subjects" }
func (teacherModel) TableName() string { return "teachers" }
func (classModel) TableName() string   { return "school_classes" }
func (studentModel) TableName() string { return "students" }

func (m subjectModel) unwrap() subject.Subject {
	return subject.Subject{ID: m.ID, Name: m.Name, Description: m.Description.String}
}

func wrapSubject(s subject.Subject) subjectModel {
	return subjectModel{
		ID:          s.ID,
		Name:        s.Name,
		Description: sql.NullString{String: s.Description, Valid: s.Description != ""},
	}
}

func (m teacherModel) unwrap() teacher.Teacher {
	t := teacher.Teacher{ID: m.ID, FullName: m.FullName, SubjectID: m.SubjectID}
	if m.Subject != nil {
		subj := m.Subject.unwrap()
		t.Subject = &subj
	}
	return t
}

func (m classModel) unwrap() schoolclass.SchoolClass {
	return schoolclass.SchoolClass{ID: m.ID, Name: m.Name}
}

func (m studentModel) unwrap() student.Student {
	s := student.Student{ID: m.ID, FullName: m.FullName, SchoolClassID: m.SchoolClassID}
	if m.SchoolClass != nil {
		class := m.SchoolClass.unwrap()
		s.SchoolClass = &class
	}
	return s
}

// AutoMigrate creates the schema without goose; used for sqlite databases in tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&subjectModel{}, &teacherModel{}, &classModel{}, &studentModel{})
}
