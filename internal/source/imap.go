package source

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/models"
)

const DefaultIMAPPort = 993

type IMAPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	TLS      bool
}

func (s IMAPSettings) addr() string {
	port := s.Port
	if port <= 0 {
		port = DefaultIMAPPort
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(port))
}

// IMAP reads INBOX over IMAP with a username and password.
type IMAP struct {
	settings IMAPSettings
	logger   zerolog.Logger
	now      func() time.Time
}

func NewIMAP(settings IMAPSettings, logger zerolog.Logger) *IMAP {
	return &IMAP{settings: settings, logger: logger, now: time.Now}
}

func (m *IMAP) Name() string {
	return NameIMAP
}

func (m *IMAP) connect(ctx context.Context) (*imapclient.Client, error) {
	if m.settings.Host == "" {
		return nil, fmt.Errorf("imap: host is empty")
	}
	if m.settings.Username == "" || m.settings.Password == "" {
		return nil, &AuthError{Source: NameIMAP, Message: "missing username or password"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := m.settings.addr()
	var (
		client *imapclient.Client
		err    error
	)
	if m.settings.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(m.settings.Username, m.settings.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{
			Source:  NameIMAP,
			Message: fmt.Sprintf("authentication failed for %s: %v", m.settings.Username, err),
		}
	}
	return client, nil
}

// Fetch returns the newest messages in INBOX inside the recency window,
// newest first.
func (m *IMAP) Fetch(ctx context.Context, params models.FetchParams) ([]models.RawMessage, error) {
	client, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = client.Close()
		case <-done:
		}
	}()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	criteria := &imap.SearchCriteria{}
	if params.NewerThanDays > 0 {
		criteria.Since = m.now().AddDate(0, 0, -params.NewerThanDays)
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if size := batchSize(params); size > 0 && len(uids) > size {
		uids = uids[len(uids)-size:]
	}
	if len(uids) == 0 {
		return nil, nil
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		Envelope:     true,
		UID:          true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	var messages []models.RawMessage
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			m.logger.Debug().Err(err).Msg("imap message skipped")
			continue
		}
		messages = append(messages, rawFromIMAP(buf, bodySection))
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func rawFromIMAP(buf *imapclient.FetchMessageBuffer, section *imap.FetchItemBodySection) models.RawMessage {
	msg := models.RawMessage{ID: "uid:" + strconv.FormatUint(uint64(buf.UID), 10)}

	if env := buf.Envelope; env != nil {
		if env.MessageID != "" {
			msg.ID = env.MessageID
		}
		msg.SubjectLine = env.Subject
		if len(env.From) > 0 {
			msg.Sender = FormatAddress(env.From[0].Name, env.From[0].Addr())
		}
		if !env.Date.IsZero() {
			msg.ReceivedAtEpochMillis = env.Date.UnixMilli()
		}
	}
	if !buf.InternalDate.IsZero() {
		msg.ReceivedAtEpochMillis = buf.InternalDate.UnixMilli()
	}
	if body := buf.FindBodySection(section); body != nil {
		msg.SnippetText = Snippet(ParseBody(body))
	}
	return msg
}
