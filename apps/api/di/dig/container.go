package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/gradebook"
	"github.com/trezcool/academia/core/student"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/cache/redislock"
	"github.com/trezcool/academia/storage/database"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
	sqlxrepos "github.com/trezcool/academia/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// DBParam holds the postgres database, absent with the in-memory storage.
type DBParam struct {
	dig.In
	DB *sqlx.DB `optional:"true"`
}

// Repositories are the record store implementations selected by the configuration.
type Repositories struct {
	dig.Out
	Students    student.Repository
	Classes     class.Repository
	Assignments assignment.Repository
	Grades      grade.Repository
	Attendance  attendance.Repository
}

// ServerParams holds everything the API server needs.
type ServerParams struct {
	dig.In
	Conf          *core.Config
	Logger        core.Logger
	Validate      *validator.Validate
	Translator    ut.Translator
	StudentSvc    *student.Service
	ClassSvc      *class.Service
	AssignmentSvc *assignment.Service
	GradeSvc      *grade.Service
	AttendanceSvc *attendance.Service
	GradebookSvc  *gradebook.Service
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

// newDB creates, opens and migrates the postgres database. It is only invoked for the postgres storage.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	ctx := context.Background()
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}

		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newMemoryRepositories() Repositories {
	db := inmemdb.Open()
	return Repositories{
		Students:    inmemdb.NewStudentRepository(db),
		Classes:     inmemdb.NewClassRepository(db),
		Assignments: inmemdb.NewAssignmentRepository(db),
		Grades:      inmemdb.NewGradeRepository(db),
		Attendance:  inmemdb.NewAttendanceRepository(db),
	}
}

func newSQLRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Students:    sqlxrepos.NewStudentRepository(db),
		Classes:     sqlxrepos.NewClassRepository(db),
		Assignments: sqlxrepos.NewAssignmentRepository(db),
		Grades:      sqlxrepos.NewGradeRepository(db),
		Attendance:  sqlxrepos.NewAttendanceRepository(db),
	}
}

// newKeyLocker serializes attendance marks across processes when redis is configured, in-process otherwise.
func newKeyLocker(conf *core.Config, logger core.Logger) attendance.KeyLocker {
	if conf.Redis.Address == "" {
		return attendance.NewMutexLocker()
	}
	client, err := redislock.NewClient(context.Background(), conf.Redis)
	if err != nil {
		logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
	}
	return redislock.New(client, conf.Redis.LockTTL, logger)
}

// newValidator returns a validator with every custom tag registered.
func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	student.RegisterValidators(validate, translator)
	attendance.RegisterValidators(validate, translator)
	return validate
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(p.Conf, &echoapi.Deps{
		Logger:        p.Logger,
		Validate:      p.Validate,
		Translator:    p.Translator,
		StudentSvc:    p.StudentSvc,
		ClassSvc:      p.ClassSvc,
		AssignmentSvc: p.AssignmentSvc,
		GradeSvc:      p.GradeSvc,
		AttendanceSvc: p.AttendanceSvc,
		GradebookSvc:  p.GradebookSvc,
	})
}

// New returns a new dependency injection dig.Container, wired to the record store of conf.
func New(conf *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(func() *core.Config { return conf }))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	switch conf.Database.Storage {
	case core.StorageMemory:
		must(c.Provide(newMemoryRepositories))
	case core.StoragePostgres:
		must(c.Provide(newDB))
		must(c.Provide(newSQLRepositories))
	default:
		must(errors.Errorf("unknown storage %q", conf.Database.Storage))
	}
	must(c.Provide(newKeyLocker))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(student.NewService))
	must(c.Provide(class.NewService))
	must(c.Provide(assignment.NewService))
	must(c.Provide(grade.NewService))
	must(c.Provide(func(svc *grade.Service) student.AverageSource { return svc }))
	must(c.Provide(attendance.NewService))
	must(c.Provide(gradebook.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
