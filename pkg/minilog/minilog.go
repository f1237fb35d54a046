// Package minilog is the diagnostic logging facility shared by the
// transport, correlator and REPL layers of this module. It extends Go's
// stdlib logger to support multiple named, independently-leveled
// destinations: call AddLogger to register each destination, then use the
// package-level Debug/Info/Warn/Error/Fatal functions to fan a message out
// to every logger whose level admits it.
//
// nvimrpc itself never calls Fatal: only cmd/nvimrpc-repl does, on
// unrecoverable startup failures. Library code always returns errors.
package minilog

import (
	"errors"
	"io"
	golog "log"
	"os"
	"sync"
)

var (
	loggers = make(map[string]*minilogger)
	logLock sync.RWMutex
)

// AddLogger registers a named logger that writes to output, emitting only
// records at level or more severe. color enables ANSI tinting, which
// should be false for log files and non-terminal destinations.
func AddLogger(name string, output io.Writer, level Level, color bool) {
	logLock.Lock()
	defer logLock.Unlock()

	loggers[name] = &minilogger{
		logger: golog.New(output, "", golog.LstdFlags),
		Level:  level,
		Color:  color,
	}
}

// AddLogRing registers a Ring as a named logger, without the timestamp
// prefix golog.Logger would add (Ring already timestamps its own lines).
func AddLogRing(name string, r *Ring, level Level) {
	logLock.Lock()
	defer logLock.Unlock()

	loggers[name] = &minilogger{
		logger: r,
		Level:  level,
	}
}

// DelLogger removes a logger previously registered with AddLogger.
func DelLogger(name string) {
	logLock.Lock()
	defer logLock.Unlock()

	delete(loggers, name)
}

// Loggers returns the names of all currently registered loggers.
func Loggers() []string {
	logLock.RLock()
	defer logLock.RUnlock()

	ret := make([]string, 0, len(loggers))
	for k := range loggers {
		ret = append(ret, k)
	}
	return ret
}

// WillLog reports whether a message at level would be written by at least
// one registered logger. Useful when the message itself is expensive to
// build, e.g. dumping a decoded Value tree.
func WillLog(level Level) bool {
	logLock.RLock()
	defer logLock.RUnlock()

	for _, l := range loggers {
		if l.Level <= level {
			return true
		}
	}
	return false
}

// SetLevel changes the level of a named logger.
func SetLevel(name string, level Level) error {
	logLock.Lock()
	defer logLock.Unlock()

	l, ok := loggers[name]
	if !ok {
		return errors.New("minilog: no such logger: " + name)
	}
	l.Level = level
	return nil
}

// GetLevel returns the level of a named logger.
func GetLevel(name string) (Level, error) {
	logLock.RLock()
	defer logLock.RUnlock()

	l, ok := loggers[name]
	if !ok {
		return 0, errors.New("minilog: no such logger: " + name)
	}
	return l.Level, nil
}

// AddFilter suppresses any log line containing filter from the named
// logger's output.
func AddFilter(name, filter string) error {
	logLock.Lock()
	defer logLock.Unlock()

	l, ok := loggers[name]
	if !ok {
		return errors.New("minilog: no such logger: " + name)
	}
	for _, f := range l.filters {
		if f == filter {
			return nil
		}
	}
	l.filters = append(l.filters, filter)
	return nil
}

// StdLogger registers a logger named "stderr" writing to os.Stderr at
// level, with color enabled when the TERM environment variable is set
// (non-empty). It is the setup
// cmd/nvimrpc-repl performs at startup.
func StdLogger(level Level) {
	AddLogger("stderr", os.Stderr, level, os.Getenv("TERM") != "")
}

func dispatch(level Level, name, format string, arg ...interface{}) {
	logLock.RLock()
	defer logLock.RUnlock()

	for _, l := range loggers {
		if l.Level <= level {
			l.log(level, name, format, arg...)
		}
	}
}

func dispatchln(level Level, name string, arg ...interface{}) {
	logLock.RLock()
	defer logLock.RUnlock()

	for _, l := range loggers {
		if l.Level <= level {
			l.logln(level, name, arg...)
		}
	}
}

func Debug(format string, arg ...interface{}) { dispatch(DEBUG, "", format, arg...) }
func Info(format string, arg ...interface{})  { dispatch(INFO, "", format, arg...) }
func Warn(format string, arg ...interface{})  { dispatch(WARN, "", format, arg...) }
func Error(format string, arg ...interface{}) { dispatch(ERROR, "", format, arg...) }

// Fatal logs at FATAL and terminates the process. Only cmd/nvimrpc-repl
// should call this.
func Fatal(format string, arg ...interface{}) {
	dispatch(FATAL, "", format, arg...)
	os.Exit(1)
}

func Debugln(arg ...interface{}) { dispatchln(DEBUG, "", arg...) }
func Infoln(arg ...interface{})  { dispatchln(INFO, "", arg...) }
func Warnln(arg ...interface{})  { dispatchln(WARN, "", arg...) }
func Errorln(arg ...interface{}) { dispatchln(ERROR, "", arg...) }

func Fatalln(arg ...interface{}) {
	dispatchln(FATAL, "", arg...)
	os.Exit(1)
}
