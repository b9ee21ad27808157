package status

import (
	"container/ring"
	"fmt"
	"sync"
	"time"

	"github.com/markusressel/g2go/internal/ui"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const defaultHistorySize = 50

// Line is a single user visible status message.
type Line struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

func (l Line) IsError() bool {
	return l.Level == LevelError
}

// Board holds the current status line and a short history of previous ones.
// Every posted line is logged as well.
type Board struct {
	mu      sync.RWMutex
	history *ring.Ring
	size    int
	last    *Line
}

func NewBoard() *Board {
	return &Board{
		history: ring.New(defaultHistorySize),
		size:    defaultHistorySize,
	}
}

func (b *Board) Post(level Level, format string, a ...interface{}) Line {
	line := Line{
		Level:   level,
		Message: fmt.Sprintf(format, a...),
		Time:    time.Now(),
	}

	switch level {
	case LevelSuccess:
		ui.Success("%s", line.Message)
	case LevelError:
		ui.Error("%s", line.Message)
	default:
		ui.Info("%s", line.Message)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.Value = line
	b.history = b.history.Next()
	b.last = &line
	return line
}

func (b *Board) Info(format string, a ...interface{}) Line {
	return b.Post(LevelInfo, format, a...)
}

func (b *Board) Success(format string, a ...interface{}) Line {
	return b.Post(LevelSuccess, format, a...)
}

func (b *Board) Failure(format string, a ...interface{}) Line {
	return b.Post(LevelError, format, a...)
}

// Last returns the current status line.
func (b *Board) Last() (Line, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.last == nil {
		return Line{}, false
	}
	return *b.last, true
}

// History returns up to limit lines, newest first. limit <= 0 returns all of them.
func (b *Board) History(limit int) []Line {
	if limit <= 0 || limit > b.size {
		limit = b.size
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := make([]Line, 0, limit)
	r := b.history.Prev()
	for i := 0; i < b.size && len(lines) < limit; i++ {
		if line, ok := r.Value.(Line); ok {
			lines = append(lines, line)
		}
		r = r.Prev()
	}
	return lines
}
