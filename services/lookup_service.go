package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/metrics"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

// Public lookup APIs.
const (
	DefaultViaCEPURL    = "https://viacep.com.br/ws"
	DefaultReceitaWSURL = "https://www.receitaws.com.br/v1/cnpj"
)

const (
	lookupCEP  = "cep"
	lookupCNPJ = "cnpj"
)

// LookupService answers CEP and CNPJ queries from the public registries.
// Successful answers are cached in Redis when a client is configured.
type LookupService struct {
	client     *http.Client
	cache      *redis.Client
	cacheTTL   time.Duration
	viaCEPURL  string
	receitaURL string
	log        *zap.Logger
}

// NewLookupService builds the service. cache may be nil.
func NewLookupService(cache *redis.Client, cacheTTL, timeout time.Duration, log *zap.Logger) *LookupService {
	return &LookupService{
		client:     &http.Client{Timeout: timeout},
		cache:      cache,
		cacheTTL:   cacheTTL,
		viaCEPURL:  DefaultViaCEPURL,
		receitaURL: DefaultReceitaWSURL,
		log:        log,
	}
}

// WithEndpoints points the service at other registries (tests, mirrors).
func (s *LookupService) WithEndpoints(viaCEP, receita string) *LookupService {
	s.viaCEPURL = strings.TrimRight(viaCEP, "/")
	s.receitaURL = strings.TrimRight(receita, "/")
	return s
}

type viaCEPResponse struct {
	Street     string      `json:"logradouro"`
	Complement string      `json:"complemento"`
	District   string      `json:"bairro"`
	City       string      `json:"localidade"`
	State      string      `json:"uf"`
	CEP        string      `json:"cep"`
	Erro       interface{} `json:"erro"`
}

type receitaResponse struct {
	Status   string `json:"status"`
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Street   string `json:"logradouro"`
	Number   string `json:"numero"`
	District string `json:"bairro"`
	CEP      string `json:"cep"`
	City     string `json:"municipio"`
	State    string `json:"uf"`
}

// CEP resolves a postal code to an address.
func (s *LookupService) CEP(ctx context.Context, raw string) (*models.AddressLookup, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.Validation("CEP é obrigatório")
	}
	cep, ok := utils.NormalizeCEP(raw)
	if !ok {
		return nil, apperrors.Validation("CEP deve ter 8 dígitos")
	}

	var out models.AddressLookup
	if s.cached(ctx, lookupCEP, cep, &out) {
		return &out, nil
	}

	var body viaCEPResponse
	if err := s.fetch(ctx, fmt.Sprintf("%s/%s/json/", s.viaCEPURL, cep), &body); err != nil {
		return nil, apperrors.Unavailable("Erro ao buscar CEP", err)
	}
	if body.Erro != nil && body.Erro != false {
		return nil, apperrors.NotFound("CEP não encontrado")
	}
	out = models.AddressLookup{
		Street:     body.Street,
		Complement: body.Complement,
		District:   body.District,
		City:       body.City,
		State:      body.State,
		CEP:        body.CEP,
	}
	s.store(ctx, lookupCEP, cep, &out)
	return &out, nil
}

// CNPJ resolves a company registration number.
func (s *LookupService) CNPJ(ctx context.Context, raw string) (*models.CompanyLookup, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.Validation("CNPJ é obrigatório")
	}
	cnpj, ok := utils.NormalizeCNPJ(raw)
	if !ok {
		return nil, apperrors.Validation("CNPJ deve ter 14 dígitos")
	}

	var out models.CompanyLookup
	if s.cached(ctx, lookupCNPJ, cnpj, &out) {
		return &out, nil
	}

	var body receitaResponse
	if err := s.fetch(ctx, fmt.Sprintf("%s/%s", s.receitaURL, cnpj), &body); err != nil {
		return nil, apperrors.Unavailable("Erro ao buscar CNPJ", err)
	}
	if strings.EqualFold(body.Status, "ERROR") {
		return nil, apperrors.NotFound("CNPJ não encontrado ou inválido")
	}
	out = models.CompanyLookup{
		Name:     body.Name,
		Email:    body.Email,
		Street:   body.Street,
		Number:   body.Number,
		District: body.District,
		CEP:      body.CEP,
		City:     body.City,
		State:    body.State,
	}
	s.store(ctx, lookupCNPJ, cnpj, &out)
	return &out, nil
}

func (s *LookupService) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func cacheKey(kind, id string) string {
	return "lookup:" + kind + ":" + id
}

func (s *LookupService) cached(ctx context.Context, kind, id string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, cacheKey(kind, id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("lookup cache read failed", zap.String("kind", kind), zap.Error(err))
		}
		metrics.LookupCache.WithLabelValues(kind, "miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		metrics.LookupCache.WithLabelValues(kind, "miss").Inc()
		return false
	}
	metrics.LookupCache.WithLabelValues(kind, "hit").Inc()
	return true
}

func (s *LookupService) store(ctx context.Context, kind, id string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(kind, id), raw, s.cacheTTL).Err(); err != nil {
		s.log.Warn("lookup cache write failed", zap.String("kind", kind), zap.Error(err))
	}
}
