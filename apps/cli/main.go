package main

import (
	"log"
	"os"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/registry"
	"github.com/trezcool/shule/core/roster"
	"github.com/trezcool/shule/core/user"
	logsvc "github.com/trezcool/shule/services/logger"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
	"github.com/trezcool/shule/storage/snapshot"
)

var logger core.Logger

func main() {
	defer os.Exit(0)

	std := log.New(os.Stderr, "SHULE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	// set up DB & repos
	db, err := inmemdb.Open()
	errAndDie(err)
	usrRepo := inmemdb.NewUserRepository(db)
	crsRepo := inmemdb.NewCourseRepository(db)

	// services
	usrSvc := user.NewService(usrRepo)
	crsSvc := course.NewService(crsRepo)
	rstSvc := roster.NewService(usrRepo, crsRepo)
	regSvc := registry.NewService(usrSvc, crsSvc, rstSvc, conf)

	// sample data; a loaded snapshot replaces it wholesale
	errAndDie(regSvc.Seed())

	store := snapshot.NewStore(conf, db)
	if err := store.Load(); err != nil {
		logger.Warn("loading data failed; starting from sample data", err)
	} else {
		logger.Info("data loaded")
	}

	// start the interactive session
	sh := newShell(os.Stdin, os.Stdout, regSvc, rstSvc, conf)
	sh.run()

	if err := store.Save(); err != nil {
		logger.Error("saving data failed", err)
	} else {
		logger.Info("data saved")
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error())
	}
}
