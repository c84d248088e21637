package blob

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-studyaid-be/pkg/llm"

	gocache "github.com/patrickmn/go-cache"
)

// Resolver turns opaque image references into retrievable bytes. References
// are either absolute URLs or paths served by the configured blob base URL.
// Resolved images are kept briefly so back-to-back operations on the same
// upload do not refetch it.
type Resolver struct {
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
}

func NewResolver(baseURL string) *Resolver {
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		cache:   gocache.New(10*time.Minute, 15*time.Minute),
	}
}

const maxImageBytes = 8 * 1024 * 1024

// Resolve fetches the referenced image. Callers treat any error here as "no
// image available" and degrade to text-only processing.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*llm.ImagePart, error) {
	if cached, found := r.cache.Get(ref); found {
		return cached.(*llm.ImagePart), nil
	}
	url := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		if r.baseURL == "" {
			return nil, fmt.Errorf("no blob base URL configured for reference %q", ref)
		}
		url = r.baseURL + "/" + strings.TrimLeft(ref, "/")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image body for %q", ref)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = sniffMime(ref, data)
	}

	part := &llm.ImagePart{MimeType: mime, Data: data}
	r.cache.Set(ref, part, gocache.DefaultExpiration)
	return part, nil
}

func sniffMime(ref string, data []byte) string {
	switch {
	case strings.HasSuffix(strings.ToLower(ref), ".png"):
		return "image/png"
	case strings.HasSuffix(strings.ToLower(ref), ".webp"):
		return "image/webp"
	case len(data) > 2 && data[0] == 0xFF && data[1] == 0xD8:
		return "image/jpeg"
	default:
		return http.DetectContentType(data)
	}
}
