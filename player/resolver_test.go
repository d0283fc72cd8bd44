package player

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayResolverReturnsStreamURL(t *testing.T) {
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "song.mp3", r.URL.Query().Get("file"))
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	r := &GatewayResolver{BaseURL: gw.URL}
	src, err := r.Resolve(context.Background(), "song.mp3")
	require.NoError(t, err)
	assert.Contains(t, src, "/stream?file=song.mp3")
}

func TestGatewayResolverPassesToken(t *testing.T) {
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	withToken := &GatewayResolver{BaseURL: gw.URL, Token: "tok"}
	_, err := withToken.Resolve(context.Background(), "song.mp3")
	assert.NoError(t, err)

	withoutToken := &GatewayResolver{BaseURL: gw.URL}
	_, err = withoutToken.Resolve(context.Background(), "song.mp3")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGatewayResolverMapsServerErrorToTransport(t *testing.T) {
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gw.Close()

	r := &GatewayResolver{BaseURL: gw.URL}
	_, err := r.Resolve(context.Background(), "song.mp3")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestGatewayResolverUnreachableGateway(t *testing.T) {
	r := &GatewayResolver{BaseURL: "http://127.0.0.1:1"}
	_, err := r.Resolve(context.Background(), "song.mp3")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestStaticResolverEscapesFileName(t *testing.T) {
	r := &StaticResolver{BaseURL: "http://media.local"}
	src, err := r.Resolve(context.Background(), "my song.mp3")
	require.NoError(t, err)
	assert.Equal(t, "http://media.local/my%20song.mp3", src)
}
