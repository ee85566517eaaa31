package cmd

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/config"
	"github.com/Vijay-1289/opportune/internal/credential"
	"github.com/Vijay-1289/opportune/internal/source"
	"github.com/Vijay-1289/opportune/internal/ui"
)

// SourceBuilder constructs a named source; source.New in production.
type SourceBuilder func(name string, settings source.Settings) (source.Source, error)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	In         io.Reader
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode

	// Credentials is nil when no keyring backend could be opened.
	Credentials *credential.Store
	Sources     SourceBuilder
	Now         func() time.Time
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) sources() SourceBuilder {
	if c.Sources != nil {
		return c.Sources
	}
	return source.New
}
