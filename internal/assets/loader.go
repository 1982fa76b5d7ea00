package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	_ "image/jpeg" // Register JPEG decoder for remote sources
	_ "image/png"  // Register PNG decoder

	"github.com/hashicorp/go-retryablehttp"

	"github.com/apehub/apegen/internal/bbox"
)

const (
	preloadBatchSize  = 4
	preloadBatchDelay = 150 * time.Millisecond
)

// Loader resolves, decodes, and caches asset images. Decoded bitmaps are
// cached per resolved source and never evicted for the lifetime of the
// loader. Character loads eagerly warm the bounding-box cache so the first
// render pays no scan latency.
type Loader struct {
	resolver Resolver
	boxes    *bbox.Cache
	logger   *slog.Logger
	client   *http.Client

	mu     sync.Mutex
	images map[Namespace]map[string]image.Image
}

// NewLoader creates a loader rooted at the asset directory. boxes may not
// be nil; logger may be nil for a discard logger.
func NewLoader(root string, boxes *bbox.Cache, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	return &Loader{
		resolver: Resolver{Root: root},
		boxes:    boxes,
		logger:   logger,
		client:   rc.StandardClient(),
		images: map[Namespace]map[string]image.Image{
			NamespaceBackgrounds: {},
			NamespaceCharacters:  {},
		},
	}
}

// Resolve exposes the loader's path resolution (resolved paths are the
// cache keys used everywhere else).
func (l *Loader) Resolve(path string) string {
	return l.resolver.Resolve(path)
}

// Load returns the decoded image for a logical path, fetching and decoding
// it on first use. A decode or fetch failure names the resolved source.
func (l *Loader) Load(ctx context.Context, ns Namespace, path string) (image.Image, error) {
	source := l.resolver.Resolve(path)

	l.mu.Lock()
	if img, ok := l.images[ns][source]; ok {
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	data, err := l.fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset %s: %w", source, err)
	}

	l.mu.Lock()
	l.images[ns][source] = img
	l.mu.Unlock()

	if ns == NamespaceCharacters {
		l.boxes.Get(source, img)
	}
	return img, nil
}

// Cached returns the decoded image for a logical path if it has already
// been loaded. Render falls back to omitting a layer when this misses.
func (l *Loader) Cached(ns Namespace, path string) (image.Image, bool) {
	source := l.resolver.Resolve(path)
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.images[ns][source]
	return img, ok
}

// Boxes returns the bounding-box cache shared with the renderer.
func (l *Loader) Boxes() *bbox.Cache { return l.boxes }

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case IsDataURL(source):
		idx := strings.Index(source, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL asset")
		}
		data, err := base64.StdEncoding.DecodeString(source[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("failed to decode data URL asset: %w", err)
		}
		return data, nil

	case IsRemote(source):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request for %s: %w", source, err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch asset %s: %w", source, err)
		}
		defer resp.Body.Close() // nolint:errcheck
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch asset %s: status %d", source, resp.StatusCode)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			return nil, fmt.Errorf("failed to read asset %s: %w", source, err)
		}
		return buf.Bytes(), nil

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset %s: %w", source, err)
		}
		return data, nil
	}
}

// PreloadResult reports which assets preloading decoded or failed.
type PreloadResult struct {
	Loaded []string
	Failed []string
}

// PreloadAll decodes the full catalog: backgrounds first, then character
// plates and baked plates, in enumeration order. Assets load in small
// batches with a pause between batches to avoid memory spikes. Individual
// failures are logged and collected; they never abort the preload.
func (l *Loader) PreloadAll(ctx context.Context) PreloadResult {
	type job struct {
		ns   Namespace
		path string
	}

	var jobs []job
	for _, id := range Backgrounds {
		jobs = append(jobs, job{NamespaceBackgrounds, BackgroundPath(id)})
	}
	for _, id := range Characters {
		jobs = append(jobs, job{NamespaceCharacters, CharacterPath(id)})
	}
	for _, id := range Characters {
		jobs = append(jobs, job{NamespaceCharacters, BakedPath(id)})
	}

	var result PreloadResult
	for start := 0; start < len(jobs); start += preloadBatchSize {
		end := start + preloadBatchSize
		if end > len(jobs) {
			end = len(jobs)
		}

		for _, j := range jobs[start:end] {
			if _, err := l.Load(ctx, j.ns, j.path); err != nil {
				l.logger.Error("Asset preload failed", "path", j.path, "error", err)
				result.Failed = append(result.Failed, j.path)
				continue
			}
			result.Loaded = append(result.Loaded, j.path)
		}

		if end < len(jobs) {
			select {
			case <-time.After(preloadBatchDelay):
			case <-ctx.Done():
				return result
			}
		}
	}
	return result
}
