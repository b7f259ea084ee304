package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/geffen-cloud/vintner/internal/domain"
	"github.com/geffen-cloud/vintner/internal/logger"
	"github.com/geffen-cloud/vintner/internal/metrics"
)

// Stage names used in metadata, timings, and metrics.
const (
	stageExtract  = "extract"
	stageRetrieve = "retrieve"
	stageMerge    = "merge"
	stageEnforce  = "enforce"
	stageBoost    = "soft_boost"
	stageGuard    = "guardrail"
	stagePromote  = "promote"
	stageRerank   = "rerank"
	stageOrder    = "order"
)

// Config holds the pipeline settings.
type Config struct {
	// PoolSize caps each retrieval channel and the reranked pool.
	PoolSize  int
	Heuristic Heuristic

	// GuardrailKeywords overrides the domain guardrail per tenant;
	// DefaultGuardrailKeywords applies otherwise. Empty falls back to the
	// built-in bilingual list.
	DefaultGuardrailKeywords []string
	GuardrailKeywords        map[string][]string
}

// Service runs the hybrid retrieval-and-ranking pipeline. One stateless
// execution per request; all mutation is on request-local data.
type Service struct {
	catalog   Catalog
	embed     Embedder
	extractor *Extractor
	enforcer  *Enforcer
	injector  *Injector

	poolSize     int
	heuristic    Heuristic
	guardDefault *Guardrail
	guardTenants map[string]*Guardrail
}

// New creates the search pipeline. ner may be nil to disable the NER
// fallback; rules may not be nil.
func New(catalog Catalog, embed Embedder, ner EntityExtractor, rules RuleSource, cfg Config) *Service {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 50
	}
	if cfg.Heuristic == (Heuristic{}) {
		cfg.Heuristic = DefaultHeuristic()
	}

	guardTenants := make(map[string]*Guardrail, len(cfg.GuardrailKeywords))
	for tenant, kw := range cfg.GuardrailKeywords {
		guardTenants[tenant] = NewGuardrail(kw)
	}

	return &Service{
		catalog:      catalog,
		embed:        embed,
		extractor:    NewExtractor(ner),
		enforcer:     NewEnforcer(catalog, cfg.PoolSize),
		injector:     NewInjector(catalog, rules),
		poolSize:     cfg.PoolSize,
		heuristic:    cfg.Heuristic,
		guardDefault: NewGuardrail(cfg.DefaultGuardrailKeywords),
		guardTenants: guardTenants,
	}
}

// Search turns a free-text query into a ranked, paginated result. A
// degraded channel never fails the request; only catalog connectivity does.
// An exhausted fallback chain yields a valid empty result.
func (s *Service) Search(ctx context.Context, q domain.Query) (domain.Result, error) {
	if err := q.Validate(); err != nil {
		return domain.Result{}, err
	}

	log := logger.FromContext(ctx)

	timings := make(map[string]time.Duration, 9)
	counts := make(map[string]int, 9)
	record := func(stage string, start time.Time, poolLen int) {
		d := time.Since(start)
		timings[stage] = d
		counts[stage] = poolLen
		metrics.PipelineStageDuration.WithLabelValues(stage).Observe(d.Seconds())
		metrics.PipelineCandidates.WithLabelValues(stage).Observe(float64(poolLen))
	}

	start := time.Now()
	filters := s.extractor.Extract(ctx, q.Text)
	cleaned := Clean(q.Text, filters)
	record(stageExtract, start, 0)

	start = time.Now()
	lexical, semantic, mode, err := s.retrieve(ctx, q, cleaned)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(string(mode), "error").Inc()
		return domain.Result{}, err
	}
	record(stageRetrieve, start, len(lexical)+len(semantic))

	start = time.Now()
	pool := Merge(lexical, semantic)
	record(stageMerge, start, len(pool))

	start = time.Now()
	pool = s.enforcer.Enforce(ctx, q.Tenant, pool, filters, q.Overrides)
	record(stageEnforce, start, len(pool))

	start = time.Now()
	pool = ApplySoftBoost(pool, filters.AllSoftTags())
	record(stageBoost, start, len(pool))

	start = time.Now()
	pool = s.guardrailFor(q.Tenant).Guard(pool)
	record(stageGuard, start, len(pool))

	start = time.Now()
	pool = s.injector.Inject(ctx, q.Tenant, q.Text, pool, filters, q.Overrides)
	record(stagePromote, start, len(pool))

	start = time.Now()
	pool = Rerank(pool, s.poolSize, time.Now())
	record(stageRerank, start, len(pool))

	start = time.Now()
	page := Order(pool, q.Limit, q.Offset)
	record(stageOrder, start, len(page))

	outcome := "ok"
	if len(page) == 0 {
		outcome = "empty"
	}
	metrics.SearchesTotal.WithLabelValues(string(mode), outcome).Inc()

	log.Debug("search pipeline complete",
		zap.String("tenant", q.Tenant),
		zap.String("mode", string(mode)),
		zap.Int("pool", len(pool)),
		zap.Int("page", len(page)),
	)

	return domain.Result{
		Items: page,
		Total: len(pool),
		Metadata: domain.Metadata{
			AppliedFilters: filters,
			RetrievalMode:  mode,
			StageCounts:    counts,
			Timings:        timings,
		},
	}, nil
}

// retrieve runs the lexical channel, evaluates the strength heuristic, and
// optionally runs the semantic channel. The lexical channel is restricted
// only by the explicit request-level overrides — parsed filters are too
// easily over-restrictive and are enforced post-retrieval instead.
func (s *Service) retrieve(
	ctx context.Context, q domain.Query, cleaned string,
) (lexical, semantic []domain.Candidate, mode domain.RetrievalMode, err error) {
	log := logger.FromContext(ctx)
	mode = domain.ModeTextOnly

	lexical, lexErr := s.catalog.TextSearch(ctx, q.Tenant, q.Text, q.Overrides, s.poolSize)
	if lexErr != nil {
		if errors.Is(lexErr, domain.ErrCatalogUnavailable) {
			return nil, nil, mode, lexErr
		}
		log.Warn("lexical search degraded", zap.Error(lexErr))
		lexical = nil
	}

	if s.heuristic.LexicalIsStrong(lexical, q.Limit) {
		return lexical, nil, domain.ModeTextOnly, nil
	}

	// The lexical pool is not decisive; pay for the embedding round trip.
	mode = domain.ModeHybrid

	embedText := cleaned
	if embedText == "" {
		embedText = q.Text
	}

	vector, embErr := s.embed.Embed(ctx, embedText)
	if embErr != nil {
		log.Warn("embedding degraded, semantic channel skipped", zap.Error(embErr))
		return lexical, nil, mode, nil
	}

	semantic, semErr := s.catalog.VectorSearch(ctx, q.Tenant, vector, q.Overrides, s.poolSize)
	if semErr != nil {
		log.Warn("vector search degraded", zap.Error(semErr))
		semantic = nil
	}

	return lexical, semantic, mode, nil
}

func (s *Service) guardrailFor(tenant string) *Guardrail {
	if g, ok := s.guardTenants[tenant]; ok {
		return g
	}
	return s.guardDefault
}
