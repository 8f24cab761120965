// Package logifacelog bridges rtfiber.Logger to a structured logiface
// logger backed by stumpy's JSON writer. The teacher (eventloop) only
// wires logiface in its test scaffolding, behind a hand-rolled Event type
// never exposed to a production caller; this package promotes the same
// integration to a real, importable rtfiber.Logger, using stumpy -- the
// pack's own concrete logiface backend -- rather than inventing another
// minimal Event type, because the scheduling domain names structured
// logging as a first-class external interface.
package logifacelog

import (
	"io"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/logiface/stumpy"
)

// Logger adapts a stumpy-backed logiface.Logger to rtfiber.Logger.
type Logger struct {
	b *logiface.Logger[*stumpy.Event]
}

// New returns a Logger writing newline-delimited JSON to w. A nil w
// defaults to os.Stderr (stumpy's own default).
func New(w io.Writer) *Logger {
	var opts []stumpy.Option
	if w != nil {
		opts = append(opts, stumpy.WithWriter(w))
	}
	return &Logger{b: stumpy.L.New(stumpy.WithStumpy(opts...))}
}

func (b *Logger) LogAdd(now time.Time, name string, id uint64, queue string) {
	b.b.Info().
		Str("name", name).
		Uint64("id", id).
		Str("queue", queue).
		Time("at", now).
		Log("task added")
}

func (b *Logger) LogMove(now time.Time, name string, id uint64, from, to string) {
	b.b.Debug().
		Str("name", name).
		Uint64("id", id).
		Str("from", from).
		Str("to", to).
		Time("at", now).
		Log("task moved")
}

func (b *Logger) LogResume(start, end time.Time, name string, id uint64) {
	b.b.Debug().
		Str("name", name).
		Uint64("id", id).
		Dur("elapsed", end.Sub(start)).
		Log("task resumed")
}

func (b *Logger) LogDelete(now time.Time, name string, id uint64) {
	b.b.Info().
		Str("name", name).
		Uint64("id", id).
		Time("at", now).
		Log("task deleted")
}

func (b *Logger) LogSleep(now, until time.Time) {
	b.b.Trace().
		Dur("for", until.Sub(now)).
		Log("scheduler sleeping")
}
