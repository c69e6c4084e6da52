package testutil

import (
	"context"
	"testing"

	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
)

func CreateSubject(t *testing.T, repo subject.Repository, name string, description ...string) subject.Subject {
	subj := subject.Subject{Name: name}
	if len(description) > 0 {
		subj.Description = description[0]
	}
	subj, err := repo.CreateSubject(context.Background(), subj)
	if err != nil {
		t.Fatalf("createSubject() failed: %v", err)
	}
	return subj
}

func CreateTeacher(t *testing.T, repo teacher.Repository, fullName, subjectID string) teacher.Teacher {
	tchr, err := repo.CreateTeacher(context.Background(), teacher.Teacher{FullName: fullName, SubjectID: subjectID})
	if err != nil {
		t.Fatalf("createTeacher() failed: %v", err)
	}
	return tchr
}

func CreateClass(t *testing.T, repo schoolclass.Repository, name string) schoolclass.SchoolClass {
	class, err := repo.CreateClass(context.Background(), schoolclass.SchoolClass{Name: name})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	return class
}

func CreateStudent(t *testing.T, repo student.Repository, fullName, classID string) student.Student {
	s, err := repo.CreateStudent(context.Background(), student.Student{FullName: fullName, SchoolClassID: classID})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return s
}
