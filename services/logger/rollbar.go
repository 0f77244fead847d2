package logsvc

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/auth"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
	levelFatal level = "FATAL"
)

// RollbarLogger reports to rollbar (when enabled) and always writes to a std logger.
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

// reportArgs drops principals from args and makes the first one the rollbar person.
// Rollbar expects: msg | error, map[string]interface{}
func (l RollbarLogger) reportArgs(msg string, args []interface{}) []interface{} {
	reported := make([]interface{}, 0, len(args)+1)
	reported = append(reported, msg)

	var person auth.Principal
	for _, arg := range args {
		if p, ok := arg.(auth.Principal); ok {
			if person == nil {
				person = p
			}
			continue
		}
		reported = append(reported, arg)
	}

	if person != nil {
		rollbar.SetPerson(string(person.Role())+":"+person.Subject(), personName(person), "")
	} else {
		rollbar.ClearPerson()
	}
	return reported
}

func personName(p auth.Principal) string {
	switch p := p.(type) {
	case auth.AdminPrincipal:
		return p.Username
	case auth.StudentPrincipal:
		return p.StudentCode
	}
	return ""
}

// write prints "LEVEL msg" followed by one line per argument. Extra data maps print as sorted
// key=value pairs; the principal prints as role:subject.
func (l RollbarLogger) write(lvl level, msg string, args []interface{}) {
	l.std.Printf("%s %s", lvl, msg)
	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
		case auth.Principal:
			l.std.Printf("principal=%s:%s", a.Role(), a.Subject())
		case map[string]interface{}:
			l.std.Print(formatFields(a))
		default:
			l.std.Printf("%+v", a)
		}
	}
}

func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(pairs, " ")
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.reportArgs(msg, args)...)
	l.write(levelDebug, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.reportArgs(msg, args)...)
	l.write(levelInfo, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.reportArgs(msg, args)...)
	l.write(levelWarn, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.reportArgs(msg, args)...)
	l.write(levelError, msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.reportArgs(msg, args)...)
	l.write(levelFatal, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
