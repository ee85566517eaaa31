package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vijay-1289/opportune/internal/filter"
	"github.com/Vijay-1289/opportune/internal/source"
)

func TestServeBuildsGmailSourcePerToken(t *testing.T) {
	t.Setenv("OPPORTUNE_CONFIG_DIR", t.TempDir())
	t.Setenv("OPPORTUNE_PROXIES", "")

	var out, errOut bytes.Buffer
	ctx := newTestContext(&out, &errOut)

	var gotName, gotToken string
	ctx.Sources = func(name string, settings source.Settings) (source.Source, error) {
		gotName = name
		gotToken = settings.Token
		return &fakeSource{messages: testMessages}, nil
	}

	srv := newServer(ctx, &ServeCmd{Timeout: 5})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotName != source.NameGmail || gotToken != "secret" {
		t.Fatalf("source = %q token = %q", gotName, gotToken)
	}

	var stats filter.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if stats[filter.All].Total != 2 {
		t.Fatalf("stats[all].Total = %d, want 2", stats[filter.All].Total)
	}
}
