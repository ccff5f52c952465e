package showroom_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/showroom"
	"github.com/base-angewandte/baseauth/pkg/upstream"
)

func newClient(t *testing.T, status int, body string, seen func(*http.Request, map[string]any)) *showroom.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if seen != nil {
			seen(r, payload)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return showroom.New(config.ShowroomConfig{Enabled: true, APIBase: srv.URL + "/api/v1", APIKey: "k"}, nil, nil)
}

func TestPushUser(t *testing.T) {
	var method, path, key string
	var got map[string]any
	c := newClient(t, http.StatusCreated, `"abc123"`, func(r *http.Request, p map[string]any) {
		method, path, key, got = r.Method, r.URL.Path, r.Header.Get("X-Api-Key"), p
	})

	id, err := c.PushUser(context.Background(), "jdoe", map[string]any{"name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/v1/entities/jdoe/", path)
	assert.Equal(t, "k", key)
	assert.Equal(t, "Jane", got["name"])
}

func TestPushUserErrors(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusForbidden, "no", showroom.ErrAuthentication},
		{http.StatusBadRequest, "bad", showroom.ErrRejected},
		{http.StatusInternalServerError, "oops", showroom.ErrUndefined},
		{http.StatusOK, "not json", upstream.ErrMalformed},
	}
	for _, tc := range cases {
		c := newClient(t, tc.status, tc.body, nil)
		_, err := c.PushUser(context.Background(), "jdoe", map[string]any{})
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}

func TestPushUserDisabled(t *testing.T) {
	c := showroom.New(config.ShowroomConfig{}, nil, nil)
	_, err := c.PushUser(context.Background(), "jdoe", nil)
	assert.ErrorIs(t, err, showroom.ErrDisabled)
}
