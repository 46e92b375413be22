package uuidify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// recorder keeps the last request seen by a test server
type recorder struct {
	mu   sync.Mutex
	last *http.Request
}

func (r *recorder) Last() *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// newTestServer returns a server answering every request with status and body.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()

	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.last = r.Clone(context.Background())
		rec.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{name: "plain", baseURL: "http://localhost:8080", want: "http://localhost:8080"},
		{name: "trailing slash", baseURL: "http://localhost:8080/", want: "http://localhost:8080"},
		{name: "many trailing slashes", baseURL: "http://localhost:8080///", want: "http://localhost:8080"},
		{name: "empty uses default", baseURL: "", want: DefaultBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.baseURL, "", logger)
			assert.Equal(t, tt.want, client.BaseURL())
			assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
			assert.Empty(t, client.header.Get("Authorization"))
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client := NewClient("", "", logger, WithTimeout(5*time.Second))
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 3 * time.Second}
		client := NewClient("", "", logger, WithHTTPClient(customClient))
		assert.Same(t, customClient, client.httpClient)
	})

	t.Run("custom http client without timeout gets bounded", func(t *testing.T) {
		customClient := &http.Client{}
		client := NewClient("", "", logger, WithHTTPClient(customClient), WithTimeout(7*time.Second))
		assert.NotSame(t, customClient, client.httpClient)
		assert.Equal(t, 7*time.Second, client.httpClient.Timeout)
		assert.Zero(t, customClient.Timeout)
	})

	t.Run("with user agent", func(t *testing.T) {
		client := NewClient("", "", logger, WithUserAgent("custom/1.0"))
		assert.Equal(t, "custom/1.0", client.header.Get("User-Agent"))
	})

	t.Run("with concurrency", func(t *testing.T) {
		client := NewClient("", "", logger, WithConcurrency(9))
		assert.Equal(t, 9, client.concurrency)

		client = NewClient("", "", logger, WithConcurrency(0))
		assert.Equal(t, DefaultConcurrency, client.concurrency)
	})
}

func TestRequestHeaders(t *testing.T) {
	t.Run("without api key", func(t *testing.T) {
		server, rec := newTestServer(t, http.StatusOK, `{"uuid":"x"}`)
		client := NewClient(server.URL, "", zerolog.Nop())

		_, err := client.UUIDv4(context.Background(), 1)
		require.NoError(t, err)

		assert.Equal(t, "uuidify-go/"+Version, rec.Last().Header.Get("User-Agent"))
		assert.Equal(t, "application/json", rec.Last().Header.Get("Accept"))
		assert.Empty(t, rec.Last().Header.Get("Authorization"))
		assert.Equal(t, "/", rec.Last().URL.Path)
	})

	t.Run("with api key", func(t *testing.T) {
		server, rec := newTestServer(t, http.StatusOK, `{"uuid":"x"}`)
		client := NewClient(server.URL+"/", "secret", zerolog.Nop())

		_, err := client.UUIDv4(context.Background(), 1)
		require.NoError(t, err)

		assert.Equal(t, "Bearer secret", rec.Last().Header.Get("Authorization"))
		assert.Equal(t, "Bearer secret", client.header.Get("Authorization"))
	})
}

func TestGenerateSingle(t *testing.T) {
	tests := []struct {
		name      string
		call      func(*Client, context.Context, int) (Result, error)
		body      map[string]any
		algorithm string
		version   string
		want      string
	}{
		{
			name:      "uuid v1",
			call:      (*Client).UUIDv1,
			body:      map[string]any{"uuid": "test-uuid-v1"},
			algorithm: "uuid",
			version:   "v1",
			want:      "test-uuid-v1",
		},
		{
			name:      "uuid v4",
			call:      (*Client).UUIDv4,
			body:      map[string]any{"uuid": "test-uuid-v4", "generated_at": "2023-01-01T00:00:00Z"},
			algorithm: "uuid",
			version:   "v4",
			want:      "test-uuid-v4",
		},
		{
			name:      "uuid v7",
			call:      (*Client).UUIDv7,
			body:      map[string]any{"uuid": "test-uuid-v7"},
			algorithm: "uuid",
			version:   "v7",
			want:      "test-uuid-v7",
		},
		{
			name:      "ulid",
			call:      (*Client).ULID,
			body:      map[string]any{"ulid": "test-ulid"},
			algorithm: "ulid",
			version:   "ulid",
			want:      "test-ulid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, rec := newTestServer(t, http.StatusOK, jsonBody(t, tt.body))
			client := NewClient(server.URL, "", zerolog.Nop())

			result, err := tt.call(client, context.Background(), DefaultCount)
			require.NoError(t, err)

			assert.False(t, result.IsBatch())
			assert.Equal(t, tt.want, result.ID)
			assert.Nil(t, result.IDs)
			assert.Equal(t, []string{tt.want}, result.Values())

			query := rec.Last().URL.Query()
			assert.Equal(t, tt.algorithm, query.Get("algorithm"))
			assert.Equal(t, tt.version, query.Get("version"))
			assert.Equal(t, "1", query.Get("count"))
			assert.Len(t, query, 3)
		})
	}
}

func TestGenerateMany(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		count int
		body  map[string]any
		want  []string
	}{
		{
			name:  "uuid v4 pair",
			kind:  KindUUIDv4,
			count: 2,
			body:  map[string]any{"uuids": []string{"uuid-1", "uuid-2"}, "generated_at": "2023-01-01T00:00:00Z"},
			want:  []string{"uuid-1", "uuid-2"},
		},
		{
			name:  "uuid v1 triple",
			kind:  KindUUIDv1,
			count: 3,
			body:  map[string]any{"uuids": []string{"a", "b", "c"}},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "uuid v7 pair",
			kind:  KindUUIDv7,
			count: 2,
			body:  map[string]any{"uuids": []string{"a", "b"}},
			want:  []string{"a", "b"},
		},
		{
			name:  "ulids",
			kind:  KindULID,
			count: 2,
			body:  map[string]any{"ulids": []string{"01A", "01B"}},
			want:  []string{"01A", "01B"},
		},
		{
			name:  "server returns fewer than requested",
			kind:  KindUUIDv4,
			count: 5,
			body:  map[string]any{"uuids": []string{"only-one"}},
			want:  []string{"only-one"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, rec := newTestServer(t, http.StatusOK, jsonBody(t, tt.body))
			client := NewClient(server.URL, "", zerolog.Nop())

			result, err := client.Generate(context.Background(), tt.kind, tt.count)
			require.NoError(t, err)

			assert.True(t, result.IsBatch())
			assert.Equal(t, tt.want, result.IDs)
			assert.Empty(t, result.ID)
			assert.Equal(t, tt.want, result.Values())
			assert.Equal(t, tt.kind, result.Kind)
			assert.Equal(t, tt.count, result.Count)
			assert.Equal(t, tt.kind.String(), rec.Last().URL.Query().Get("version"))
		})
	}
}

func TestCountPassedThrough(t *testing.T) {
	for _, count := range []int{0, -1, 1000} {
		server, rec := newTestServer(t, http.StatusOK, `{"uuids":[]}`)
		client := NewClient(server.URL, "", zerolog.Nop())

		result, err := client.UUIDv4(context.Background(), count)
		require.NoError(t, err)
		assert.Empty(t, result.IDs)
		assert.Equal(t, count, result.Count)

		query := rec.Last().URL.Query()
		assert.Equal(t, []string{"uuid"}, query["algorithm"])
		assert.Equal(t, []string{"v4"}, query["version"])
		assert.Equal(t, []string{strconv.Itoa(count)}, query["count"])
	}
}

func TestMissingKey(t *testing.T) {
	t.Run("single requested, plural returned", func(t *testing.T) {
		server, _ := newTestServer(t, http.StatusOK, `{"uuids":["a"]}`)
		client := NewClient(server.URL, "", zerolog.Nop())

		_, err := client.UUIDv4(context.Background(), 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingKey)
		assert.Contains(t, err.Error(), `"uuid"`)
		assert.NotErrorIs(t, err, ErrUuidify)
	})

	t.Run("batch requested, singular returned", func(t *testing.T) {
		server, _ := newTestServer(t, http.StatusOK, `{"ulid":"a"}`)
		client := NewClient(server.URL, "", zerolog.Nop())

		_, err := client.ULID(context.Background(), 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingKey)
		assert.Contains(t, err.Error(), `"ulids"`)
	})
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "json error field",
			status:      http.StatusBadRequest,
			body:        `{"error":"Invalid count"}`,
			wantMessage: "Invalid count",
		},
		{
			name:        "plain text body",
			status:      http.StatusInternalServerError,
			body:        "Internal Server Error",
			wantMessage: "Internal Server Error",
		},
		{
			name:        "json without error field",
			status:      http.StatusServiceUnavailable,
			body:        `{"detail":"down"}`,
			wantMessage: `{"detail":"down"}`,
		},
		{
			name:        "json array body",
			status:      http.StatusBadRequest,
			body:        `["nope"]`,
			wantMessage: `["nope"]`,
		},
		{
			name:        "empty body",
			status:      http.StatusNotFound,
			body:        "",
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, tt.status, tt.body)
			client := NewClient(server.URL, "", zerolog.Nop())

			_, err := client.UUIDv4(context.Background(), -1)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.body, apiErr.Body)
			assert.ErrorIs(t, err, ErrUuidify)
			assert.Contains(t, err.Error(), strconv.Itoa(tt.status))
			assert.Contains(t, err.Error(), tt.wantMessage)

			var connErr *ConnectionError
			assert.False(t, errors.As(err, &connErr))
			var decErr *DecodeError
			assert.False(t, errors.As(err, &decErr))
		})
	}
}

func TestConnectionErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := NewClient(url, "", zerolog.Nop())
		_, err := client.UUIDv4(context.Background(), 1)
		require.Error(t, err)

		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.NotNil(t, connErr.Unwrap())
		assert.ErrorIs(t, err, ErrUuidify)
		assert.Contains(t, err.Error(), "failed to connect")

		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, "", zerolog.Nop(), WithTimeout(50*time.Millisecond))
		_, err := client.UUIDv7(context.Background(), 1)
		require.Error(t, err)

		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("malformed base url", func(t *testing.T) {
		client := NewClient("http://[::1", "", zerolog.Nop())

		_, err := client.UUIDv4(context.Background(), 1)
		require.Error(t, err)

		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.ErrorIs(t, err, ErrUuidify)
		assert.Contains(t, err.Error(), "failed to create request")
	})

	t.Run("cancelled context", func(t *testing.T) {
		server, _ := newTestServer(t, http.StatusOK, `{"uuid":"x"}`)
		client := NewClient(server.URL, "", zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.UUIDv4(ctx, 1)
		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		count int
	}{
		{name: "not json", body: "Not JSON", count: 1},
		{name: "json scalar", body: `"just a string"`, count: 1},
		{name: "single value wrong type", body: `{"uuid":42}`, count: 1},
		{name: "plural value wrong type", body: `{"uuids":"a,b"}`, count: 2},
		{name: "single value null", body: `{"uuid":null}`, count: 1},
		{name: "plural value null", body: `{"uuids":null}`, count: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusOK, tt.body)
			client := NewClient(server.URL, "", zerolog.Nop())

			_, err := client.UUIDv4(context.Background(), tt.count)
			require.Error(t, err)

			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.ErrorIs(t, err, ErrUuidify)
			assert.Contains(t, err.Error(), "failed to decode")

			var apiErr *APIError
			assert.False(t, errors.As(err, &apiErr))
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"uuids":["a","b"]}`)
	client := NewClient(server.URL, "", zerolog.Nop())

	first, err := client.UUIDv4(context.Background(), 2)
	require.NoError(t, err)
	second, err := client.UUIDv4(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateUnknownKind(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", zerolog.Nop())

	_, err := client.Generate(context.Background(), Kind(42), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestConcurrentUse(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"uuid":"shared"}`)
	client := NewClient(server.URL, "key", zerolog.Nop())

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := client.UUIDv4(context.Background(), 1)
			if err == nil && res.ID != "shared" {
				err = errors.New("unexpected id " + res.ID)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
