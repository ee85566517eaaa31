package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	mboxlib "github.com/emersion/go-mbox"
	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/models"
)

// Mbox reads a local mbox archive. Archives are historical, so the recency
// window is not applied; the batch is the last messages in the file.
type Mbox struct {
	path   string
	logger zerolog.Logger
}

func NewMbox(path string, logger zerolog.Logger) *Mbox {
	return &Mbox{path: path, logger: logger}
}

func (m *Mbox) Name() string {
	return NameMbox
}

func (m *Mbox) Fetch(ctx context.Context, params models.FetchParams) ([]models.RawMessage, error) {
	file, err := os.Open(m.path)
	if err != nil {
		return nil, fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	messages, err := m.read(ctx, file)
	if err != nil {
		return nil, err
	}

	if size := batchSize(params); size > 0 && len(messages) > size {
		messages = messages[len(messages)-size:]
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (m *Mbox) read(ctx context.Context, r io.Reader) ([]models.RawMessage, error) {
	reader := mboxlib.NewReader(r)

	var messages []models.RawMessage
	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return messages, nil
			}
			return nil, fmt.Errorf("mbox message %d: %w", idx, err)
		}

		raw, err := io.ReadAll(msgReader)
		if err != nil {
			return nil, fmt.Errorf("mbox message %d read: %w", idx, err)
		}

		msg, err := ParseMessage(raw)
		if err != nil {
			m.logger.Debug().Err(err).Int("index", idx).Str("path", m.path).Msg("mbox message skipped")
			continue
		}
		messages = append(messages, msg)
	}
}
