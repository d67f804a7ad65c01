// Package logger escribe logs estructurados, una línea por evento.
//
// Dos formatos: text (logfmt, claves ordenadas, valores con espacios entre
// comillas) y json (un objeto por línea). Sin dependencias externas.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = [...]string{Debug: "debug", Info: "info", Warn: "warn", Error: "error"}

func (l Level) String() string {
	if l < Debug || l > Error {
		return levelNames[Info]
	}
	return levelNames[l]
}

// ParseLevel acepta debug|info|warn|warning|error; cualquier otra cosa es info.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return Warn
	}
	for lvl, name := range levelNames {
		if name == s {
			return Level(lvl)
		}
	}
	return Info
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

type Fields = map[string]any

type Logger interface {
	// With devuelve un logger hijo que agrega fields a cada línea.
	With(fields Fields) Logger

	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
}

type Options struct {
	Level  Level
	Format Format
	App    string // se agrega como app=<App>
	Output io.Writer
}

// sink es lo que comparten un logger y todos sus hijos.
type sink struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	format Format
}

type lineLogger struct {
	sink *sink
	base Fields
}

func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := opts.Format
	if format != FormatJSON {
		format = FormatText
	}

	base := Fields{}
	if app := strings.TrimSpace(opts.App); app != "" {
		base["app"] = app
	}

	return &lineLogger{
		sink: &sink{out: out, level: opts.Level, format: format},
		base: base,
	}
}

// NewFromEnv lee LOG_LEVEL, LOG_FORMAT y APP_NAME.
func NewFromEnv() Logger {
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    os.Getenv("APP_NAME"),
	})
}

func (l *lineLogger) With(fields Fields) Logger {
	if len(fields) == 0 {
		return l
	}
	return &lineLogger{sink: l.sink, base: merge(l.base, fields)}
}

func (l *lineLogger) Debug(msg string, fields Fields) { l.emit(Debug, msg, fields) }
func (l *lineLogger) Info(msg string, fields Fields)  { l.emit(Info, msg, fields) }
func (l *lineLogger) Warn(msg string, fields Fields)  { l.emit(Warn, msg, fields) }
func (l *lineLogger) Error(msg string, fields Fields) { l.emit(Error, msg, fields) }

func (l *lineLogger) emit(lvl Level, msg string, fields Fields) {
	if lvl < l.sink.level {
		return
	}

	entry := merge(l.base, fields)
	entry["ts"] = time.Now().Format(time.RFC3339Nano)
	entry["level"] = lvl.String()
	entry["msg"] = msg

	var line []byte
	if l.sink.format == FormatJSON {
		b, err := json.Marshal(entry)
		if err != nil {
			// valor no serializable: caer a texto antes que perder la línea
			b = []byte(logfmt(entry))
		}
		line = b
	} else {
		line = []byte(logfmt(entry))
	}
	line = append(line, '\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = l.sink.out.Write(line)
}

// merge copia a y b en un map nuevo; b pisa a. Los errores se guardan como texto.
func merge(a, b Fields) Fields {
	out := make(Fields, len(a)+len(b)+3)
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		out[k] = v
	}
	return out
}

func logfmt(m Fields) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(logfmtValue(m[k]))
	}
	return sb.String()
}

func logfmtValue(v any) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}

type nop struct{}

// Nop descarta todo.
func Nop() Logger { return nop{} }

func (n nop) With(Fields) Logger     { return n }
func (nop) Debug(string, Fields) {}
func (nop) Info(string, Fields)  {}
func (nop) Warn(string, Fields)  {}
func (nop) Error(string, Fields) {}
