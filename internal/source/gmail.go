package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/models"
	"github.com/Vijay-1289/opportune/internal/network"
)

const gmailBaseURL = "https://gmail.googleapis.com/gmail/v1/users/me"

// Gmail reads the signed-in user's mailbox through the Gmail REST API.
// The bearer token is fixed at construction.
type Gmail struct {
	client  network.Doer
	token   string
	baseURL string
	logger  zerolog.Logger
}

func NewGmail(client network.Doer, token string, logger zerolog.Logger) *Gmail {
	return &Gmail{
		client:  client,
		token:   strings.TrimSpace(token),
		baseURL: gmailBaseURL,
		logger:  logger,
	}
}

func (g *Gmail) Name() string {
	return NameGmail
}

type gmailList struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type gmailMessage struct {
	ID           string `json:"id"`
	Snippet      string `json:"snippet"`
	InternalDate string `json:"internalDate"`
	Payload      struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
	} `json:"payload"`
}

func (g *Gmail) Fetch(ctx context.Context, params models.FetchParams) ([]models.RawMessage, error) {
	if g.token == "" {
		return nil, &AuthError{Source: NameGmail, Message: "missing access token"}
	}

	ids, err := g.listIDs(ctx, params)
	if err != nil {
		return nil, err
	}
	if params.Limit > 0 && len(ids) > params.Limit {
		ids = ids[:params.Limit]
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var (
		wg      sync.WaitGroup
		results = make(chan gmailResult, len(ids))
	)
	for idx, id := range ids {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()
			msg, err := g.fetchMessage(ctx, id)
			results <- gmailResult{index: idx, id: id, msg: msg, err: err}
		}(idx, id)
	}
	wg.Wait()
	close(results)

	ordered := make([]*models.RawMessage, len(ids))
	var failures int
	for res := range results {
		if res.err != nil {
			if IsAuthError(res.err) || errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
				return nil, res.err
			}
			failures++
			g.logger.Warn().Err(res.err).Str("message_id", res.id).Msg("gmail fetch failed")
			continue
		}
		msg := res.msg
		ordered[res.index] = &msg
	}
	if failures == len(ids) {
		return nil, fmt.Errorf("gmail: all %d message fetches failed", failures)
	}

	messages := make([]models.RawMessage, 0, len(ids)-failures)
	for _, msg := range ordered {
		if msg != nil {
			messages = append(messages, *msg)
		}
	}
	return messages, nil
}

type gmailResult struct {
	index int
	id    string
	msg   models.RawMessage
	err   error
}

func (g *Gmail) listIDs(ctx context.Context, params models.FetchParams) ([]string, error) {
	query := url.Values{}
	if params.MaxResults > 0 {
		query.Set("maxResults", strconv.Itoa(params.MaxResults))
	}
	if params.NewerThanDays > 0 {
		query.Set("q", fmt.Sprintf("newer_than:%dd", params.NewerThanDays))
	}

	var list gmailList
	if err := g.getJSON(ctx, g.baseURL+"/messages?"+query.Encode(), &list); err != nil {
		return nil, fmt.Errorf("gmail list: %w", err)
	}

	ids := make([]string, 0, len(list.Messages))
	for _, msg := range list.Messages {
		if msg.ID != "" {
			ids = append(ids, msg.ID)
		}
	}
	return ids, nil
}

func (g *Gmail) fetchMessage(ctx context.Context, id string) (models.RawMessage, error) {
	query := url.Values{}
	query.Set("format", "metadata")
	query.Add("metadataHeaders", "From")
	query.Add("metadataHeaders", "Subject")

	var payload gmailMessage
	target := g.baseURL + "/messages/" + url.PathEscape(id) + "?" + query.Encode()
	if err := g.getJSON(ctx, target, &payload); err != nil {
		return models.RawMessage{}, fmt.Errorf("gmail message %s: %w", id, err)
	}

	msg := models.RawMessage{
		ID:          payload.ID,
		SnippetText: html.UnescapeString(payload.Snippet),
	}
	if msg.ID == "" {
		msg.ID = id
	}
	// A malformed internalDate stays zero and the classifier skips the message.
	if millis, err := strconv.ParseInt(strings.TrimSpace(payload.InternalDate), 10, 64); err == nil {
		msg.ReceivedAtEpochMillis = millis
	}
	for _, header := range payload.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "from":
			msg.Sender = header.Value
		case "subject":
			msg.SubjectLine = header.Value
		}
	}
	return msg, nil
}

func (g *Gmail) getJSON(ctx context.Context, target string, out any) error {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == fhttp.StatusUnauthorized:
		return &AuthError{Source: NameGmail, Message: "access token rejected"}
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
