package myhttpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "token abc", r.Header.Get("Authorization"))
		assert.Equal(t, "Deploy-to-CF-Workers", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, `{"a":1}`, string(body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	sender := NewJSONHTTPClient(Options{MaxRPS: 100})

	status, respBody, err := sender.Send(context.Background(), http.MethodPost, server.URL, map[string]string{"Authorization": "token abc"}, []byte(`{"a":1}`))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, `{"ok":true}`, string(respBody))
}

func TestSendCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewJSONHTTPClient(Options{}).Send(c, http.MethodGet, server.URL, nil, nil)
	assert.Error(t, err)
}
