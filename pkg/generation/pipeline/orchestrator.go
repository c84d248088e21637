package pipeline

import (
	"context"
	"strings"
	"time"

	"ai-studyaid-be/internal/pkg/logger"
	"ai-studyaid-be/pkg/generation"
	"ai-studyaid-be/pkg/generation/cache"
	"ai-studyaid-be/pkg/generation/chunker"
	"ai-studyaid-be/pkg/generation/heuristic"
	"ai-studyaid-be/pkg/generation/params"
	"ai-studyaid-be/pkg/generation/prompt"
	"ai-studyaid-be/pkg/generation/ratelimit"
	"ai-studyaid-be/pkg/llm"

	"github.com/google/uuid"
)

const (
	// Per-attempt timeout. On expiry the attempt is abandoned and the chain
	// advances; nothing is cancelled mid-flight beyond this.
	defaultAttemptTimeout = 30 * time.Second

	// Bound on how much raw input is forwarded to a provider.
	maxPromptInputChars = 6000
)

// ContextSource assembles bounded context text for a request. Nil text means
// no context was available; that is not an error.
type ContextSource interface {
	ContextText(ctx context.Context, refs generation.ContextRefs) string
}

// ImageResolver turns an opaque image reference into retrievable bytes.
// Failure degrades the request to text-only processing.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (*llm.ImagePart, error)
}

// Orchestrator coordinates the full generation pipeline: cache check, rate
// limiting, parameter normalization, ordered strategy attempts and the
// guaranteed local terminal fallback. Apart from ConfigurationError and
// RateLimitError, Execute always returns a well-formed Result.
type Orchestrator struct {
	strategies []Strategy
	normalizer *params.Normalizer
	limiter    *ratelimit.Limiter
	cache      *cache.ResponseCache
	extractor  *heuristic.Extractor
	contexts   ContextSource
	images     ImageResolver
	logger     logger.ILogger
	timeout    time.Duration
	now        func() time.Time
}

type Option func(*Orchestrator)

func WithContextSource(cs ContextSource) Option {
	return func(o *Orchestrator) { o.contexts = cs }
}

func WithImageResolver(ir ImageResolver) Option {
	return func(o *Orchestrator) { o.images = ir }
}

func WithAttemptTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator builds the pipeline around the given remote strategies,
// tried in order. The local heuristic terminal step is always appended.
func NewOrchestrator(
	remotes []Strategy,
	normalizer *params.Normalizer,
	limiter *ratelimit.Limiter,
	responseCache *cache.ResponseCache,
	log logger.ILogger,
	opts ...Option,
) *Orchestrator {
	extractor := heuristic.NewExtractor()
	o := &Orchestrator{
		strategies: append(append([]Strategy{}, remotes...), NewLocalStrategy(extractor)),
		normalizer: normalizer,
		limiter:    limiter,
		cache:      responseCache,
		extractor:  extractor,
		logger:     log,
		timeout:    defaultAttemptTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Tags returns the ordered strategy tags of the configured chain.
func (o *Orchestrator) Tags() []string {
	tags := make([]string, len(o.strategies))
	for i, s := range o.strategies {
		tags[i] = s.Tag()
	}
	return tags
}

// Execute runs one generation request through the pipeline.
func (o *Orchestrator) Execute(ctx context.Context, req *generation.Request) (*generation.Result, error) {
	started := o.now()

	normalized := o.normalizer.Normalize(req.Params)
	fingerprint := cache.Fingerprint(req.Kind, req, normalized)

	if cached, ok := o.cache.Get(fingerprint); ok {
		cached.FromCache = true
		cached.ProcessingTimeMs = o.elapsedMs(started)
		o.debug("cache hit", map[string]interface{}{"kind": string(req.Kind)})
		return &cached, nil
	}

	if req.Kind.RequiresVision() && !o.hasVisionStrategy() {
		return nil, &generation.ConfigurationError{
			Setting: "vision provider credentials",
			Reason:  "operation " + string(req.Kind) + " requires a vision-capable provider",
		}
	}

	prepared := o.prepare(ctx, req, normalized)

	firstRemote := true
	for _, strategy := range o.strategies {
		if strategy.Remote() {
			if prepared.Image != nil && !strategy.SupportsVision() {
				o.warn("skipping non-vision strategy", strategy.Tag(), nil)
				continue
			}
			if !o.limiter.TryConsume(strategy.Tag()) {
				if firstRemote {
					// The primary provider's budget is the caller's signal to
					// back off; later strategies degrade silently instead.
					return nil, &generation.RateLimitError{
						Provider:   strategy.Tag(),
						RetryAfter: o.limiter.RetryAfter(strategy.Tag()),
					}
				}
				o.warn("rate window exhausted, falling through", strategy.Tag(), nil)
				continue
			}
			firstRemote = false
		}

		result, err := o.attempt(ctx, strategy, prepared)
		if err != nil {
			o.warn("strategy attempt failed", strategy.Tag(), err)
			continue
		}

		result.ProcessingTimeMs = o.elapsedMs(started)
		o.cache.Set(fingerprint, *result)
		return result, nil
	}

	// The local terminal strategy cannot fail, so this is unreachable in a
	// correctly constructed orchestrator. Kept as a hard guarantee.
	fallback := o.localFallback(req, prepared)
	fallback.ProcessingTimeMs = o.elapsedMs(started)
	o.cache.Set(fingerprint, *fallback)
	return fallback, nil
}

// attempt runs one strategy under the per-attempt timeout and normalizes its
// output into a Result.
func (o *Orchestrator) attempt(ctx context.Context, strategy Strategy, prepared *Prepared) (*generation.Result, error) {
	attemptCtx := ctx
	if strategy.Remote() {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	pr, err := strategy.Attempt(attemptCtx, prepared)
	if err != nil {
		return nil, err
	}
	if pr == nil || !pr.Success {
		return nil, errUnusableResponse(strategy.Tag())
	}

	result := &generation.Result{
		Success:    true,
		Text:       pr.Text,
		Artifact:   pr.Artifact,
		MethodUsed: strategy.Tag(),
		Confidence: o.confidenceOf(strategy),
	}

	if strategy.Remote() {
		switch prepared.Kind {
		case generation.OpQuiz, generation.OpMindmap:
			artifact, parseErr := generation.ParseArtifact(prepared.Kind, pr.Text)
			if parseErr != nil {
				return nil, parseErr
			}
			result.Artifact = artifact
		case generation.OpOCR:
			result.Artifact = o.enrichEvidence(pr.Text, strategy.Tag(), result.Confidence)
		}
	}

	if strings.TrimSpace(result.Text) == "" && result.Artifact == nil {
		return nil, errUnusableResponse(strategy.Tag())
	}
	return result, nil
}

// prepare normalizes the input, assembles context, resolves the image and
// builds the provider prompt once for the whole chain.
func (o *Orchestrator) prepare(ctx context.Context, req *generation.Request, normalized generation.Parameters) *Prepared {
	contextText := ""
	if o.contexts != nil && hasContextRefs(req.ContextRefs) {
		contextText = o.contexts.ContextText(ctx, req.ContextRefs)
	}

	bounded := boundedInput(req.Text)

	var image *llm.ImagePart
	if req.ImageRef != "" && o.images != nil {
		resolved, err := o.images.Resolve(ctx, req.ImageRef)
		if err != nil {
			// No image available: degrade to text-only processing.
			o.warn("image resolution failed, degrading to text-only", req.ImageRef, err)
		} else {
			image = resolved
		}
	}

	return &Prepared{
		Kind:        req.Kind,
		Prompt:      prompt.NewBuilder(req.Kind, bounded, contextText).Build(),
		RawText:     bounded,
		ContextText: contextText,
		Params:      normalized,
		Image:       image,
	}
}

// localFallback invokes the terminal extractor directly.
func (o *Orchestrator) localFallback(req *generation.Request, prepared *Prepared) *generation.Result {
	local := NewLocalStrategy(o.extractor)
	pr, _ := local.Attempt(context.Background(), prepared)
	return &generation.Result{
		Success:    true,
		Text:       pr.Text,
		Artifact:   pr.Artifact,
		MethodUsed: local.Tag(),
		Confidence: o.extractor.Confidence(),
	}
}

// enrichEvidence rebuilds extracted text as evidence chunks attributed to the
// producing strategy.
func (o *Orchestrator) enrichEvidence(text, methodTag string, confidence float64) *generation.Artifact {
	artifact := o.extractor.Evidence(text)
	for i := range artifact.Evidence {
		artifact.Evidence[i].Method = methodTag
		artifact.Evidence[i].Confidence = confidence
	}
	return artifact
}

func (o *Orchestrator) confidenceOf(strategy Strategy) float64 {
	if rs, ok := strategy.(*remoteStrategy); ok {
		return rs.Confidence()
	}
	return o.extractor.Confidence()
}

func (o *Orchestrator) hasVisionStrategy() bool {
	for _, s := range o.strategies {
		if s.Remote() && s.SupportsVision() {
			return true
		}
	}
	return false
}

func (o *Orchestrator) elapsedMs(started time.Time) int64 {
	return o.now().Sub(started).Milliseconds()
}

func (o *Orchestrator) warn(message, tag string, err error) {
	if o.logger == nil {
		return
	}
	details := map[string]interface{}{"method": tag}
	if err != nil {
		details["error"] = err.Error()
	}
	o.logger.Warn("GENERATION", message, details)
}

func (o *Orchestrator) debug(message string, details map[string]interface{}) {
	if o.logger == nil {
		return
	}
	o.logger.Debug("GENERATION", message, details)
}

// boundedInput caps the raw input forwarded to providers, cutting on natural
// boundaries via the chunker rather than mid-sentence.
func boundedInput(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxPromptInputChars {
		return text
	}

	var sb strings.Builder
	for _, chunk := range chunker.Split(text, chunker.DefaultTargetSize) {
		if sb.Len()+len(chunk) > maxPromptInputChars {
			break
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(chunk)
	}
	if sb.Len() == 0 {
		return text[:maxPromptInputChars]
	}
	return sb.String()
}

func hasContextRefs(refs generation.ContextRefs) bool {
	return refs.SessionId != uuid.Nil || refs.ImageId != uuid.Nil || refs.UserId != uuid.Nil
}

type unusableResponseError struct {
	tag string
}

func (e *unusableResponseError) Error() string {
	return "unusable response from strategy " + e.tag
}

func errUnusableResponse(tag string) error {
	return &unusableResponseError{tag: tag}
}
