package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	internalhttp "github.com/huntdesk-io/huntdesk/internal/http"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/machine/paginated", request.URL.Path)
		assert.Equal(t, "per_page=100", request.URL.RawQuery)
		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
		assert.Equal(t, "application/json", request.Header.Get("Accept"))
		assert.Equal(t, "huntdesk", request.Header.Get("User-Agent"))

		_ = json.NewEncoder(writer).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "test-token")

	resp, err := client.Get(context.Background(), "/machine/paginated", url.Values{"per_page": []string{"100"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":[]}`, string(resp.Body))
}

func TestClient_Post(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
		assert.Equal(t, "2022-06-28", request.Header.Get("X-Api-Version"))

		var body map[string]any

		_ = json.NewDecoder(request.Body).Decode(&body)
		assert.Equal(t, "tracker", body["query"])

		writer.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(writer).Encode(map[string]any{"results": []any{}})
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "token",
		internalhttp.WithHeader("X-Api-Version", "2022-06-28"))

	resp, err := client.Post(context.Background(), "/search", map[string]any{"query": "tracker"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{name: "unauthorized", statusCode: http.StatusUnauthorized, wantErr: huntapi.ErrUnauthorized},
		{name: "forbidden", statusCode: http.StatusForbidden, wantErr: huntapi.ErrUnauthorized},
		{name: "not found", statusCode: http.StatusNotFound, wantErr: huntapi.ErrNotFound},
		{name: "server error", statusCode: http.StatusBadGateway, wantErr: huntapi.ErrTransport},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(test.statusCode)
			}))
			defer server.Close()

			client := internalhttp.NewClient(server.URL, "token")

			resp, err := client.Get(context.Background(), "/programs", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, test.wantErr)
			assert.Equal(t, test.statusCode, resp.StatusCode)
		})
	}
}

func TestClient_URL(t *testing.T) {
	t.Parallel()

	client := internalhttp.NewClient("https://labs.example/api/v4/", "token")

	assert.Equal(t,
		"https://labs.example/api/v4/machine/paginated?per_page=100",
		client.URL("machine/paginated", url.Values{"per_page": []string{"100"}}))

	// Absolute next-page links pass through.
	assert.Equal(t,
		"https://labs.example/api/v4/machine/paginated?page=2",
		client.URL("https://labs.example/api/v4/machine/paginated?page=2", nil))

	// Query appends to links that already carry one.
	assert.Equal(t,
		"https://labs.example/api/v4/machine/paginated?page=2&per_page=100",
		client.URL("https://labs.example/api/v4/machine/paginated?page=2", url.Values{"per_page": []string{"100"}}))
}

func TestClient_TransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := internalhttp.NewClient(server.URL, "token")

	_, err := client.Get(context.Background(), "/machines", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, huntapi.ErrTransport)
}
