package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/models"
	"github.com/Vijay-1289/opportune/internal/network"
)

var (
	ErrNotImplemented = errors.New("source not implemented")
	ErrUnknownSource  = errors.New("unknown source")
)

const (
	NameGmail = "gmail"
	NameIMAP  = "imap"
	NameMbox  = "mbox"
)

// Source hands raw messages to the classifier. Implementations bound the
// batch by params and never classify anything themselves.
type Source interface {
	Name() string
	Fetch(ctx context.Context, params models.FetchParams) ([]models.RawMessage, error)
}

// AuthError reports a rejected or missing credential.
type AuthError struct {
	Source  string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Source, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Settings carries everything any source may need. Each source reads only
// its own fields.
type Settings struct {
	Token    string
	Client   network.Doer
	MboxPath string
	IMAP     IMAPSettings
	Logger   zerolog.Logger
}

// Names lists the registered sources in sorted order.
func Names() []string {
	names := []string{NameGmail, NameIMAP, NameMbox}
	sort.Strings(names)
	return names
}

// New builds the named source.
func New(name string, settings Settings) (Source, error) {
	switch NormalizeName(name) {
	case NameGmail:
		if settings.Client == nil {
			return nil, fmt.Errorf("%s source: no http client", NameGmail)
		}
		return NewGmail(settings.Client, settings.Token, settings.Logger), nil
	case NameIMAP:
		return NewIMAP(settings.IMAP, settings.Logger), nil
	case NameMbox:
		if strings.TrimSpace(settings.MboxPath) == "" {
			return nil, fmt.Errorf("%s source: mbox path is empty", NameMbox)
		}
		return NewMbox(settings.MboxPath, settings.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
}

func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "google", "gmail-api":
		return NameGmail
	case "mailbox", "mbox-file":
		return NameMbox
	default:
		return name
	}
}

// batchSize is the smaller positive bound of params, zero meaning unbounded.
func batchSize(params models.FetchParams) int {
	size := params.MaxResults
	if params.Limit > 0 && (size <= 0 || params.Limit < size) {
		size = params.Limit
	}
	if size < 0 {
		return 0
	}
	return size
}
