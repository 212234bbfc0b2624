package embedding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyagent/backend/internal/infrastructure/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.OpenAIConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		EmbeddingModel: "text-embedding-3-small",
		MaxRetries:     3,
	})
}

func TestBuildEmbeddingURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		expected string
	}{
		{"完整路径", "https://api.example.com/v1/embeddings", "https://api.example.com/v1/embeddings"},
		{"以 /v1 结尾", "https://api.example.com/v1", "https://api.example.com/v1/embeddings"},
		{"以 /v1/ 结尾", "https://api.example.com/v1/", "https://api.example.com/v1/embeddings"},
		{"裸域名", "https://api.example.com", "https://api.example.com/v1/embeddings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildEmbeddingURL(tt.baseURL))
		})
	}
}

func TestClient_EmbedTexts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)

		// 按输入顺序返回向量
		resp := EmbeddingResponse{}
		for i := range req.Input {
			resp.Data = append(resp.Data, struct {
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{
				Embedding: []float32{float32(i), 0.5},
				Index:     i,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	vectors, err := client.EmbedTexts([]string{"Eiffel Tower", "Louvre Museum"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0, 0.5}, vectors[0])
	assert.Equal(t, []float32{1, 0.5}, vectors[1], "向量应按输入顺序排列")
}

func TestClient_EmbedTexts_Empty(t *testing.T) {
	client := newTestClient("http://localhost:1")

	_, err := client.EmbedTexts(nil)
	assert.Error(t, err)
}

func TestClient_EmbedText_Cache(t *testing.T) {
	var requestCount int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requestCount, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1, 0.2], "index": 0}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	first, err := client.EmbedText("best museums in Paris")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, first)

	// 第二次相同查询应命中缓存
	second, err := client.EmbedText("best museums in Paris")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&requestCount), "重复查询不应再次调用 API")
}

func TestClient_EmbedTexts_Retry(t *testing.T) {
	var requestCount int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&requestCount, 1)
		if n == 1 {
			// 首次请求失败，验证重试
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"embedding": [0.3], "index": 0}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	vectors, err := client.EmbedTexts([]string{"test"})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, []float32{0.3}, vectors[0])
	assert.Equal(t, int64(2), atomic.LoadInt64(&requestCount))
}
