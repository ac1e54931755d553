package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
)

type registryStub struct {
	server *httptest.Server
	hits   int32
}

func newRegistryStub(t *testing.T) *registryStub {
	stub := &registryStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&stub.hits, 1)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/ws/01310100/json/":
			w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
		case strings.HasPrefix(r.URL.Path, "/ws/"):
			w.Write([]byte(`{"erro":true}`))
		case r.URL.Path == "/cnpj/11222333000181":
			w.Write([]byte(`{"status":"OK","nome":"PADARIA LTDA","municipio":"CAMPINAS","uf":"SP"}`))
		case r.URL.Path == "/cnpj/99999999000199":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.Write([]byte(`{"status":"ERROR","message":"CNPJ inválido"}`))
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func newLookupFixture(t *testing.T, withCache bool) (*LookupService, *registryStub, *miniredis.Miniredis) {
	stub := newRegistryStub(t)
	var (
		cache *redis.Client
		mr    *miniredis.Miniredis
	)
	if withCache {
		mr = miniredis.RunT(t)
		cache = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { cache.Close() })
	}
	svc := NewLookupService(cache, time.Hour, 2*time.Second, zap.NewNop()).
		WithEndpoints(stub.server.URL+"/ws/", stub.server.URL+"/cnpj")
	return svc, stub, mr
}

func TestLookupCEPCachesAnswers(t *testing.T) {
	svc, stub, mr := newLookupFixture(t, true)

	addr, err := svc.CEP(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, "Avenida Paulista", addr.Street)
	assert.Equal(t, "SP", addr.State)
	assert.True(t, mr.Exists("lookup:cep:01310100"))

	again, err := svc.CEP(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.EqualValues(t, 1, atomic.LoadInt32(&stub.hits))

	mr.FastForward(2 * time.Hour)
	_, err = svc.CEP(context.Background(), "01310100")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&stub.hits))
}

func TestLookupCEPErrors(t *testing.T) {
	svc, _, mr := newLookupFixture(t, true)

	_, err := svc.CEP(context.Background(), "")
	assert.Equal(t, "CEP é obrigatório", apperrors.Message(err, ""))

	_, err = svc.CEP(context.Background(), "123")
	assert.Equal(t, "CEP deve ter 8 dígitos", apperrors.Message(err, ""))

	_, err = svc.CEP(context.Background(), "00000000")
	assert.Equal(t, 404, apperrors.Status(err))
	assert.False(t, mr.Exists("lookup:cep:00000000"))
}

func TestLookupCNPJ(t *testing.T) {
	svc, stub, _ := newLookupFixture(t, false)

	company, err := svc.CNPJ(context.Background(), "11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "PADARIA LTDA", company.Name)
	assert.Equal(t, "CAMPINAS", company.City)

	_, err = svc.CNPJ(context.Background(), "11.222.333/0001-81")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&stub.hits))

	_, err = svc.CNPJ(context.Background(), "00000000000000")
	assert.Equal(t, "CNPJ não encontrado ou inválido", apperrors.Message(err, ""))

	_, err = svc.CNPJ(context.Background(), "99999999000199")
	assert.Equal(t, 502, apperrors.Status(err))
	assert.Equal(t, "Erro ao buscar CNPJ", apperrors.Message(err, ""))

	_, err = svc.CNPJ(context.Background(), "1234")
	assert.Equal(t, "CNPJ deve ter 14 dígitos", apperrors.Message(err, ""))
}
