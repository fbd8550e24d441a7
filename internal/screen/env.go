package screen

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/schedule"
	"github.com/abhisek/leitbox/internal/store"
)

// Env is the state shared by every screen of one program run.
type Env struct {
	Root     *deck.Category
	Repo     store.CategoryRepo
	History  store.HistoryRepo
	Settings *schedule.Settings
	Logger   *log.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Time returns the current time of the environment.
func (e *Env) Time() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Log returns the environment logger or the default one.
func (e *Env) Log() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// Save persists the whole category tree. Without a repository it does
// nothing.
func (e *Env) Save(ctx context.Context) error {
	if e.Repo == nil {
		return nil
	}
	if err := e.Repo.Save(ctx, e.Root); err != nil {
		e.Log().Error("save categories", "err", err)
		return err
	}
	return nil
}
