package logsvc

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/ratiba/core"
)

// RollbarLogger prints to a std logger and reports to Rollbar when enabled.
// Every report carries the app name and storage backend as custom fields.
type RollbarLogger struct {
	std    *log.Logger
	fields map[string]interface{}
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	host, _ := os.Hostname()
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{
		std: std,
		fields: map[string]interface{}{
			"app":     conf.AppName,
			"storage": conf.Storage,
		},
	}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// entry is one log call, split the way Rollbar expects it.
type entry struct {
	err     error
	extras  map[string]interface{} // merged map args
	details []string               // eg. import row errors
	args    []string
}

func parseArgs(args []interface{}) entry {
	e := entry{extras: make(map[string]interface{})}
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			if e.err == nil {
				e.err = a
			} else {
				e.args = append(e.args, a.Error())
			}
		case map[string]interface{}:
			for k, v := range a {
				e.extras[k] = v
			}
		case []string:
			e.details = append(e.details, a...)
		default:
			e.args = append(e.args, fmt.Sprintf("%+v", a))
		}
	}
	return e
}

// prepare returns rollbar args: msg, the first error if any, then one custom map.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	e := parseArgs(args)

	custom := make(map[string]interface{}, len(l.fields)+len(e.extras)+2)
	for k, v := range l.fields {
		custom[k] = v
	}
	for k, v := range e.extras {
		custom[k] = v
	}
	if len(e.details) > 0 {
		custom["details"] = e.details
	}
	if len(e.args) > 0 {
		custom["args"] = e.args
	}

	newArgs := []interface{}{msg}
	if e.err != nil {
		newArgs = append(newArgs, e.err)
	}
	return append(newArgs, custom)
}

// print writes `msg[: err] key=value...` then one indented line per detail.
func (l RollbarLogger) print(msg string, args []interface{}) {
	e := parseArgs(args)

	var b strings.Builder
	b.WriteString(msg)
	if e.err != nil {
		b.WriteString(": " + e.err.Error())
	}
	keys := make([]string, 0, len(e.extras))
	for k := range e.extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.extras[k])
	}
	for _, arg := range e.args {
		b.WriteString(" " + arg)
	}
	l.std.Println(b.String())

	for _, d := range e.details {
		l.std.Println("  " + d)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
