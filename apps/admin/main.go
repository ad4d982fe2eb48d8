package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/gradebook"
	"github.com/trezcool/academia/core/student"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
	sqlxrepos "github.com/trezcool/academia/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	var (
		db          *sql.DB
		students    student.Repository
		classes     class.Repository
		assignments assignment.Repository
		grades      grade.Repository
		records     attendance.Repository
	)
	switch conf.Database.Storage {
	case core.StorageMemory:
		mem := inmemdb.Open()
		students = inmemdb.NewStudentRepository(mem)
		classes = inmemdb.NewClassRepository(mem)
		assignments = inmemdb.NewAssignmentRepository(mem)
		grades = inmemdb.NewGradeRepository(mem)
		records = inmemdb.NewAttendanceRepository(mem)
	default:
		sqlDB, err := database.Open(context.Background(), conf)
		if err != nil {
			logger.Fatal("opening database", err)
		}
		defer sqlDB.Close()
		db = sqlDB.DB
		students = sqlxrepos.NewStudentRepository(sqlDB)
		classes = sqlxrepos.NewClassRepository(sqlDB)
		assignments = sqlxrepos.NewAssignmentRepository(sqlDB)
		grades = sqlxrepos.NewGradeRepository(sqlDB)
		records = sqlxrepos.NewAttendanceRepository(sqlDB)
	}

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	student.RegisterValidators(validate, translator)

	gradeSvc := grade.NewService(grades)
	studentSvc := student.NewService(students, gradeSvc)
	gradebookSvc := gradebook.NewService(
		studentSvc,
		class.NewService(classes),
		assignment.NewService(assignments),
		gradeSvc,
		attendance.NewService(records, attendance.NewMutexLocker()),
	)

	// start CLI
	cli := commandLine{
		db:         db,
		out:        os.Stdout,
		students:   studentSvc,
		grades:     gradeSvc,
		gradebooks: gradebookSvc,
		validate:   validate,
		translator: translator,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
