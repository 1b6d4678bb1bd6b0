package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"os"
	"time"

	echoapi "github.com/gradhub/thesisdesk/apps/api/echo"
	"github.com/gradhub/thesisdesk/core"
	"github.com/gradhub/thesisdesk/core/committee"
	"github.com/gradhub/thesisdesk/core/progress"
	"github.com/gradhub/thesisdesk/core/topic"
	"github.com/gradhub/thesisdesk/core/user"
	emailsvc "github.com/gradhub/thesisdesk/services/email"
	logsvc "github.com/gradhub/thesisdesk/services/logger"
	"github.com/gradhub/thesisdesk/storage/database"
	sqlxrepos "github.com/gradhub/thesisdesk/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	cmtSvc := committee.NewService(sqlxrepos.NewCommitteeRepository(db), mailSvc)
	topicSvc := topic.NewService(sqlxrepos.NewTopicRepository(db))
	progSvc := progress.NewService(sqlxrepos.NewProgressRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Options{
		Addr:         conf.Server.Address(),
		Logger:       logger,
		UserSvc:      usrSvc,
		CommitteeSvc: cmtSvc,
		TopicSvc:     topicSvc,
		ProgressSvc:  progSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db, conf); err != nil {
		return nil, err
	}
	return db, nil
}
