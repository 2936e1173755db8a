package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/adhami/splitscan/internal/metrics"
)

const (
	cacheExpiration = 15 * time.Minute
	cacheCleanup    = 30 * time.Minute
)

// Service decodes uploaded photos and runs them through the scanner,
// caching results by image digest so re-submitting the same photo does not
// cost a second model call.
type Service struct {
	scanner Scanner
	cache   *cache.Cache
}

// NewService creates a new extraction service with the scanner injected.
func NewService(scanner Scanner) *Service {
	return &Service{
		scanner: scanner,
		cache:   cache.New(cacheExpiration, cacheCleanup),
	}
}

// Extract runs receipt extraction on a base64 data URI photo.
func (s *Service) Extract(ctx context.Context, photoDataURI string) ([]ReceiptData, error) {
	imageData, mimeType, err := decodeDataURI(photoDataURI)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(imageData)
	key := hex.EncodeToString(digest[:])
	if cached, found := s.cache.Get(key); found {
		metrics.ExtractionCacheHits.Inc()
		return cached.([]ReceiptData), nil
	}

	metrics.ExtractionRequests.Inc()
	start := time.Now()
	receipts, err := s.scanner.ScanReceipts(ctx, imageData, mimeType)
	if err != nil {
		metrics.ExtractionFailures.Inc()
		return nil, err
	}
	slog.Info("receipts extracted",
		"count", len(receipts),
		"mime_type", mimeType,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	s.cache.Set(key, receipts, cache.DefaultExpiration)
	return receipts, nil
}

// decodeDataURI splits a "data:<mime>;base64,<payload>" URI into raw bytes
// and MIME type.
func decodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", ErrInvalidDataURI
	}
	meta, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, "", ErrInvalidDataURI
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidDataURI, mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return data, mimeType, nil
}
