package enrichment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"github.com/worldoflottery/archive-backend/pkg/logger"
	"github.com/worldoflottery/archive-backend/pkg/redis"
)

const defaultCacheTTL = 30 * 24 * time.Hour

// Analyzer is the slice of the Gemini client the service depends on.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, mimeType, imageBase64 string) (TicketDetails, error)
	Research(ctx context.Context, prompt string) (ResearchResult, error)
}

// Service answers enrichment requests, consulting the cache before the
// upstream model. A ticket scan never changes, so cached answers stay valid
// for the full TTL.
type Service interface {
	AnalyzeTicket(ctx context.Context, mimeType, imageBase64 string) (TicketDetails, error)
	ResearchTicket(ctx context.Context, prompt string) (ResearchResult, error)
}

// ServiceParams groups dependencies for the enrichment service. Cache may be
// nil; the service then calls the model on every request.
type ServiceParams struct {
	Client   Analyzer
	Cache    *redis.Client
	Logger   *logger.Logger
	CacheTTL time.Duration
}

type service struct {
	client   Analyzer
	cache    *redis.Client
	logg     *logger.Logger
	cacheTTL time.Duration
}

// NewService builds the enrichment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "enrichment client is required")
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &service{
		client:   params.Client,
		cache:    params.Cache,
		logg:     params.Logger,
		cacheTTL: ttl,
	}, nil
}

// AnalyzeTicket extracts entry-form fields from a ticket scan.
func (s *service) AnalyzeTicket(ctx context.Context, mimeType, imageBase64 string) (TicketDetails, error) {
	if strings.TrimSpace(imageBase64) == "" {
		return TicketDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "ticket image is required")
	}

	key := s.cacheKey("analyze", mimeType+"|"+imageBase64)
	var cached TicketDetails
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	details, err := s.client.AnalyzeImage(ctx, mimeType, imageBase64)
	if err != nil {
		return TicketDetails{}, err
	}

	s.cachePut(ctx, key, details)
	return details, nil
}

// ResearchTicket returns a grounded write-up for a ticket description.
func (s *service) ResearchTicket(ctx context.Context, prompt string) (ResearchResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return ResearchResult{}, pkgerrors.New(pkgerrors.CodeValidation, "research prompt is required")
	}

	key := s.cacheKey("research", prompt)
	var cached ResearchResult
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	result, err := s.client.Research(ctx, prompt)
	if err != nil {
		return ResearchResult{}, err
	}

	s.cachePut(ctx, key, result)
	return result, nil
}

func (s *service) cacheKey(scope, payload string) string {
	if s.cache == nil {
		return ""
	}
	digest := sha256.Sum256([]byte(payload))
	return s.cache.EnrichmentKey(scope, hex.EncodeToString(digest[:]))
}

// cacheGet reports whether a cached value was found and decoded into out.
// Cache failures are logged and ignored; the model call is the fallback.
func (s *service) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil || key == "" {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != redis.Nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "enrichment cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "enrichment cache entry corrupt, evicting")
		}
		// Drop the entry so the fresh answer below replaces it instead of
		// every read tripping over the same garbage.
		if delErr := s.cache.Del(ctx, key); delErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", delErr.Error()), "enrichment cache eviction failed")
		}
		return false
	}
	return true
}

func (s *service) cachePut(ctx context.Context, key string, value any) {
	if s.cache == nil || key == "" {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "enrichment cache write failed")
	}
}
