package inmemdb

import (
	"sort"
	"strings"
	"sync"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
)

// DB is an in-memory store that behaves like the relational one:
// unique names, required references and cascading deletes.
type DB struct {
	sync.RWMutex
	subjects map[string]*subject.Subject
	teachers map[string]*teacher.Teacher
	classes  map[string]*schoolclass.SchoolClass
	students map[string]*student.Student
}

func Open() *DB {
	return &DB{
		subjects: make(map[string]*subject.Subject),
		teachers: make(map[string]*teacher.Teacher),
		classes:  make(map[string]*schoolclass.SchoolClass),
		students: make(map[string]*student.Student),
	}
}

// Reset empties all tables.
func (db *DB) Reset() {
	db.Lock()
	defer db.Unlock()
	db.subjects = make(map[string]*subject.Subject)
	db.teachers = make(map[string]*teacher.Teacher)
	db.classes = make(map[string]*schoolclass.SchoolClass)
	db.students = make(map[string]*student.Student)
}

func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// orderBy sorts `items` in place following `ordering`, falling back to `defaults` when none is given.
// `cmps` maps each orderable field to a three-way comparison.
func orderBy[T any](items []T, ordering, defaults []core.DBOrdering, cmps map[string]func(a, b T) int) error {
	cols := make(map[string]string, len(cmps))
	for field := range cmps {
		cols[field] = field
	}
	if len(ordering) == 0 {
		ordering = defaults
	}
	ordering, err := core.MapOrdering(ordering, cols)
	if err != nil {
		return err
	}

	sort.SliceStable(items, func(i, j int) bool {
		for _, ord := range ordering {
			c := cmps[ord.Field](items[i], items[j])
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return nil
}
