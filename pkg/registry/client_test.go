package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/protoreg/pkg/httputil"
)

func newTestClient(t *testing.T, url string) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClient(Options{
		URLs:    []string{url},
		Timeout: 2 * time.Second,
		Retry: RetryConfig{
			MaxAttempts:       3,
			InitialDelay:      time.Millisecond,
			MaxDelay:          5 * time.Millisecond,
			BackoffMultiplier: 2.0,
		},
	})
	require.NoError(t, err)
	return client
}

func TestGetLatestVersion(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/subjects/{subject}/versions/latest", func(w http.ResponseWriter, req *http.Request) {
		subject := mux.Vars(req)["subject"]
		if subject != "user-value" {
			httputil.WriteNotFoundError(w, "subject not found")
			return
		}
		httputil.WriteSuccess(w, RegisteredSchema{
			Subject:    subject,
			ID:         42,
			Version:    3,
			SchemaType: SchemaTypeProtobuf,
			Schema:     `syntax = "proto3";`,
			References: []Reference{{Name: "common.proto", Subject: "demo.Common", Version: 1}},
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	reg, err := client.GetLatestVersion(context.Background(), "user-value")
	require.NoError(t, err)
	assert.Equal(t, 42, reg.ID)
	assert.Equal(t, 3, reg.Version)
	assert.Len(t, reg.References, 1)

	_, err = client.GetLatestVersion(context.Background(), "missing-value")
	assert.True(t, IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestGetByVersion_Caches(t *testing.T) {
	var hits atomic.Int64

	r := mux.NewRouter()
	r.HandleFunc("/subjects/{subject}/versions/{version}", func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		httputil.WriteSuccess(w, RegisteredSchema{
			Subject: mux.Vars(req)["subject"],
			ID:      7,
			Version: 1,
			Schema:  `syntax = "proto3";`,
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	first, err := client.GetByVersion(context.Background(), "demo.Common", 1)
	require.NoError(t, err)

	second, err := client.GetByVersion(context.Background(), "demo.Common", 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "second lookup should be served from cache")
}

func TestRegister(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/subjects/{subject}/versions", func(w http.ResponseWriter, req *http.Request) {
		httputil.WriteSuccess(w, map[string]int{"id": 101, "version": 2})
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	version, id, err := client.Register(context.Background(), "user-value", `syntax = "proto3";`, SchemaTypeProtobuf, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Equal(t, 101, id)
}

func TestRegister_Rejected(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/subjects/{subject}/versions", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error_code": 409, "message": "incompatible schema"}`))
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, _, err := client.Register(context.Background(), "user-value", `syntax = "proto3";`, SchemaTypeProtobuf, nil)
	require.Error(t, err)
	assert.True(t, IsRejected(err))
	assert.Contains(t, err.Error(), "incompatible schema")
}

func TestRegister_InvalidType(t *testing.T) {
	client := newTestClient(t, "http://localhost:0")
	_, _, err := client.Register(context.Background(), "s", "x", SchemaType("THRIFT"), nil)
	assert.Error(t, err)
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	var calls atomic.Int64

	r := mux.NewRouter()
	r.HandleFunc("/subjects/{subject}/versions/latest", func(w http.ResponseWriter, req *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		httputil.WriteSuccess(w, RegisteredSchema{Subject: "s", ID: 1, Version: 1})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	reg, err := client.GetLatestVersion(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, 1, reg.ID)
	assert.Equal(t, int64(3), calls.Load())
}

func TestRetry_Exhausted(t *testing.T) {
	r := mux.NewRouter()
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.GetLatestVersion(context.Background(), "s")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))

	var ua *UnavailableError
	require.ErrorAs(t, err, &ua)
	assert.Equal(t, 3, ua.Attempts)
}

func TestAuthorization_Bearer(t *testing.T) {
	var gotAuth string

	r := mux.NewRouter()
	r.HandleFunc("/subjects/{subject}/versions/latest", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		httputil.WriteSuccess(w, RegisteredSchema{Subject: "s", ID: 1, Version: 1})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client, err := NewHTTPClient(Options{
		URLs:        []string{srv.URL},
		BearerToken: "sekret",
	})
	require.NoError(t, err)

	_, err = client.GetLatestVersion(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "Bearer sekret", gotAuth)
}
