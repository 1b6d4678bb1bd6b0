package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/gradhub/thesisdesk/core"
	"github.com/gradhub/thesisdesk/core/user"
)

// RollbarLogger mirrors every event to the process log and to Rollbar.
// Passing a user.User among the args attaches it as the Rollbar person,
// so API errors can be traced back to the logged-in account.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// rollbarArgs filters a user.User out of args and into the Rollbar person.
// At most one user is attached; without one the person is cleared so a
// previous request's account does not leak onto this event.
func (l RollbarLogger) rollbarArgs(msg string, args []interface{}) []interface{} {
	var usrSet bool
	filtered := make([]interface{}, 0, len(args)+1)
	filtered = append(filtered, msg)
	for _, arg := range args {
		usr, ok := arg.(user.User)
		if !ok {
			filtered = append(filtered, arg)
			continue
		}
		if !usrSet {
			rollbar.SetPerson(usr.ID, usr.Username, usr.Email)
			usrSet = true
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return filtered
}

func (l RollbarLogger) echo(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.rollbarArgs(msg, args)...)
	l.echo(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.rollbarArgs(msg, args)...)
	l.echo(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.rollbarArgs(msg, args)...)
	l.echo(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.rollbarArgs(msg, args)...)
	l.echo(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.rollbarArgs(msg, args)...)
	l.echo(msg, args)
	l.std.Fatal(msg)
}
