package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
	logsvc "github.com/trezcool/ratiba/services/logger"
	"github.com/trezcool/ratiba/storage/database"
	gormrepos "github.com/trezcool/ratiba/storage/database/gorm"
	sqlxrepos "github.com/trezcool/ratiba/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// storage provides the repositories of the configured backend.
type storage struct {
	dig.Out

	DB       *sql.DB
	Subjects subject.Repository
	Teachers teacher.Repository
	Classes  schoolclass.Repository
	Students student.Repository
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) storage {
	setUp := func() (storage, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return storage{}, err
		}

		switch conf.Storage {
		case core.StoragePostgres:
			db, err := database.Open(conf)
			if err != nil {
				return storage{}, err
			}
			return storage{
				DB:       db.DB,
				Subjects: sqlxrepos.NewSubjectRepository(db),
				Teachers: sqlxrepos.NewTeacherRepository(db),
				Classes:  sqlxrepos.NewClassRepository(db),
				Students: sqlxrepos.NewStudentRepository(db),
			}, nil
		case core.StorageGorm:
			db, err := database.OpenGorm(conf)
			if err != nil {
				return storage{}, err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return storage{}, err
			}
			return storage{
				DB:       sqlDB,
				Subjects: gormrepos.NewSubjectRepository(db),
				Teachers: gormrepos.NewTeacherRepository(db),
				Classes:  gormrepos.NewClassRepository(db),
				Students: gormrepos.NewStudentRepository(db),
			}, nil
		default:
			return storage{}, errors.Errorf("unknown storage %q", conf.Storage)
		}
	}

	s, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	return s
}

func newTeacherService(repo teacher.Repository, subjects *subject.Service, validate *validator.Validate) *teacher.Service {
	return teacher.NewService(repo, subjects, validate)
}

func newStudentService(repo student.Repository, classes *schoolclass.Service, validate *validator.Validate) *student.Service {
	return student.NewService(repo, classes, validate)
}

// newContainer returns a new dependency injection dig.Container
func newContainer() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(core.NewValidator))
	must(c.Provide(subject.NewService))
	must(c.Provide(schoolclass.NewService))
	must(c.Provide(newTeacherService))
	must(c.Provide(newStudentService))
	must(c.Provide(newCommandLine))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
