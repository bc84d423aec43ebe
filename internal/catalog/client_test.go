package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"tecex/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	cfg, _ := config.Load()
	cfg.TecdocAPIKey = "test-key"
	cfg.TecdocBaseURL = "https://example.test/endpoint"
	cfg.RateLimitRPS = 1000

	client := NewClient(cfg, zap.NewNop().Sugar())
	client.httpClient = &http.Client{Transport: rt}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestCallRetriesRetryableStatus(t *testing.T) {
	attempt := 0
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		attempt++
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Fatalf("X-Api-Key = %q", got)
		}
		if attempt == 1 {
			return jsonResponse(http.StatusServiceUnavailable, `{"error":"busy"}`), nil
		}
		return jsonResponse(http.StatusOK, `{"articles":[{"articleNumber":"1.31809"}]}`), nil
	})

	body, err := client.Call(context.Background(), client.ArticlesQuery(355, "1.31809"))
	if err != nil {
		t.Fatal(err)
	}
	if attempt != 2 {
		t.Fatalf("attempts=%d", attempt)
	}
	records := NormalizeEnvelope(ResolveField(body, "articles"))
	if len(records) != 1 {
		t.Fatalf("records=%d", len(records))
	}
}

func TestCallDoesNotRetryClientError(t *testing.T) {
	attempt := 0
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		attempt++
		return jsonResponse(http.StatusBadRequest, `{"error":"bad query"}`), nil
	})

	_, err := client.Call(context.Background(), client.BrandInfoQuery(355))
	if err == nil {
		t.Fatal("expected error")
	}
	if attempt != 1 {
		t.Fatalf("attempts=%d", attempt)
	}
}

func TestCallUndecodableBody(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `<html>not json</html>`), nil
	})

	_, err := client.Call(context.Background(), client.BrandInfoQuery(355))
	if !errors.Is(err, ErrBadPayload) {
		t.Fatalf("err=%v, want ErrBadPayload", err)
	}
}

func TestCallRequiresAPIKey(t *testing.T) {
	cfg, _ := config.Load()
	cfg.TecdocAPIKey = ""
	client := NewClient(cfg, zap.NewNop().Sugar())

	_, err := client.Call(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestDetailedLinkagesQueryWrapsPairs(t *testing.T) {
	cfg, _ := config.Load()
	client := NewClient(cfg, zap.NewNop().Sugar())

	pairs := []LinkPair{{ArticleLinkID: 11, LinkingTargetID: 22}}
	payload := client.DetailedLinkagesQuery(117092, pairs, "P")

	blob, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(blob), `"linkedArticlePairs":{"array":[{"articleLinkId":11,"linkingTargetId":22}]}`) {
		t.Fatalf("payload=%s", blob)
	}
}
