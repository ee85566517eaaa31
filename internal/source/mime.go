package source

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/Vijay-1289/opportune/internal/models"
)

// SnippetLength caps derived snippets, in runes.
const SnippetLength = 200

// ParseMessage reads an RFC 5322 message into a RawMessage. Messages without
// a Message-Id get a content hash as their id.
func ParseMessage(raw []byte) (models.RawMessage, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return models.RawMessage{}, fmt.Errorf("read message: %w", err)
	}
	defer mr.Close()

	header := mr.Header
	msg := models.RawMessage{
		ID:     messageID(header, raw),
		Sender: formatSender(header),
	}
	if subject, err := header.Subject(); err == nil {
		msg.SubjectLine = strings.TrimSpace(subject)
	} else {
		msg.SubjectLine = strings.TrimSpace(header.Get("Subject"))
	}
	if date, err := header.Date(); err == nil && !date.IsZero() {
		msg.ReceivedAtEpochMillis = date.UnixMilli()
	}

	text, html := readBodies(mr)
	msg.SnippetText = Snippet(text, html)
	return msg, nil
}

// ParseBody extracts the text and html bodies of a full message.
func ParseBody(raw []byte) (string, string) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw), ""
	}
	defer mr.Close()
	return readBodies(mr)
}

func readBodies(mr *mail.Reader) (textBody string, htmlBody string) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(contentType, "text/plain") && textBody == "":
			textBody = string(body)
		case strings.HasPrefix(contentType, "text/html") && htmlBody == "":
			htmlBody = string(body)
		}
	}
	return textBody, htmlBody
}

func messageID(header mail.Header, raw []byte) string {
	if id, err := header.MessageID(); err == nil && id != "" {
		return id
	}
	if id := strings.Trim(strings.TrimSpace(header.Get("Message-Id")), "<>"); id != "" {
		return id
	}
	sum := sha256.Sum256(raw)
	return "sha256:" + hex.EncodeToString(sum[:12])
}

func formatSender(header mail.Header) string {
	addresses, err := header.AddressList("From")
	if err != nil || len(addresses) == 0 {
		return strings.TrimSpace(header.Get("From"))
	}
	return FormatAddress(addresses[0].Name, addresses[0].Address)
}

// FormatAddress renders "Name <addr>" or the bare address.
func FormatAddress(name, address string) string {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	switch {
	case name == "":
		return address
	case address == "":
		return name
	default:
		return name + " <" + address + ">"
	}
}

// Snippet builds the classifier excerpt from a message body, preferring the
// text part and rendering html to text otherwise.
func Snippet(text, html string) string {
	body := text
	if strings.TrimSpace(body) == "" && strings.TrimSpace(html) != "" {
		body = htmlText(html)
	}
	return truncateWords(collapseLines(body), SnippetLength)
}

// collapseLines squeezes blanks inside each line and drops empty lines,
// keeping one newline between the lines that remain.
func collapseLines(body string) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func htmlText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style, head").Remove()
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return doc.Text()
}

func truncateWords(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	cut := string(runes[:limit])
	if runes[limit] == ' ' || runes[limit] == '\n' {
		return cut
	}
	if idx := strings.LastIndexAny(cut, " \n"); idx > 0 {
		return cut[:idx]
	}
	return cut
}
