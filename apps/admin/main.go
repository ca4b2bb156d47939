package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	logsvc "github.com/Rashad2003/Student-Attendance-Management/services/logger"
	"github.com/Rashad2003/Student-Attendance-Management/storage/database"
	inmemdb "github.com/Rashad2003/Student-Attendance-Management/storage/database/inmem"
	"github.com/Rashad2003/Student-Attendance-Management/storage/database/mongodb"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logsvc.NewRollbarLogger(os.Stdout, "ADMIN", conf)
	logger.Enable(!conf.Debug)

	cli := &commandLine{logger: logger}

	switch conf.Database.Engine {
	case core.EngineMongoDB:
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		db, err := database.Open(ctx, conf)
		cancel()
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer func() { _ = database.Close(context.Background(), db) }()

		cli.usrRepo = mongodb.NewUserRepository(db)
		cli.createIndexes = func(ctx context.Context) error { return database.EnsureIndexes(ctx, db) }
	default:
		cli.usrRepo = inmemdb.NewUserRepository(inmemdb.Open())
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		os.Exit(1)
	}
}
