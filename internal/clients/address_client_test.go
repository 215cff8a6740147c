package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestAddressClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/01310100/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"cep": "01310-100",
			"logradouro": "Avenida Paulista",
			"complemento": "de 612 a 1510 - lado par",
			"bairro": "Bela Vista",
			"localidade": "São Paulo",
			"uf": "SP",
			"ibge": "3550308",
			"gia": "1004",
			"ddd": "11",
			"siafi": "7107"
		}`)
	}))
	defer srv.Close()

	client := NewAddressHTTPClient(srv.URL+"/", time.Second, quietLogger())
	addr, err := client.Lookup(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, &domain.Address{
		PostalCode:   "01310100",
		Street:       "Avenida Paulista",
		Complement:   "de 612 a 1510 - lado par",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		Region:       "SP",
		IBGE:         3550308,
		GIA:          1004,
		DDD:          11,
		SIAFI:        7107,
	}, addr)
}

func TestAddressClient_NotFound(t *testing.T) {
	for _, body := range []string{`{"erro": true}`, `{"erro": "true"}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		}))
		client := NewAddressHTTPClient(srv.URL, time.Second, quietLogger())
		_, err := client.Lookup(context.Background(), "99999999")
		require.ErrorIs(t, err, domain.ErrPostalCodeNotFound, body)
		srv.Close()
	}
}

func TestAddressClient_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		_, err := NewAddressHTTPClient(srv.URL, time.Second, quietLogger()).Lookup(context.Background(), "01310100")
		require.ErrorIs(t, err, domain.ErrLookupFailed)
	})

	t.Run("bad json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "<html>")
		}))
		defer srv.Close()
		_, err := NewAddressHTTPClient(srv.URL, time.Second, quietLogger()).Lookup(context.Background(), "01310100")
		require.ErrorIs(t, err, domain.ErrLookupFailed)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		_, err := NewAddressHTTPClient(url, time.Second, quietLogger()).Lookup(context.Background(), "01310100")
		require.ErrorIs(t, err, domain.ErrLookupFailed)
	})
}
