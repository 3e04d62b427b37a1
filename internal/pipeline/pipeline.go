// Package pipeline orchestrates profile enrichment: preprocessing and
// extraction, taxonomy classification, record synchronization, and
// outreach draft generation.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/connoction/outreach-cli/internal/model"
	"github.com/connoction/outreach-cli/internal/normalize"
	"github.com/connoction/outreach-cli/internal/records"
	"github.com/connoction/outreach-cli/internal/store"
)

// Syncer is the record-store surface the orchestrator needs.
type Syncer interface {
	Sync(ctx context.Context, profile model.Profile, opts records.SyncOptions) (*model.RecordRef, error)
}

// Pipeline wires the enrichment stages together. Any stage may be nil
// except the synchronizer: a nil extractor skips page extraction, a nil
// classifier leaves unclassified fields absent, a nil run store
// disables the run log.
type Pipeline struct {
	extractor  *Extractor
	classifier *FieldClassifier
	drafter    *DraftGenerator
	cache      *ExtractionCache
	sync       Syncer
	runs       store.Store
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExtractor enables LLM extraction of raw page content.
func WithExtractor(e *Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithClassifier enables LLM taxonomy classification.
func WithClassifier(c *FieldClassifier) Option {
	return func(p *Pipeline) { p.classifier = c }
}

// WithDrafter enables outreach draft generation.
func WithDrafter(d *DraftGenerator) Option {
	return func(p *Pipeline) { p.drafter = d }
}

// WithRunStore enables the persistent run log.
func WithRunStore(s store.Store) Option {
	return func(p *Pipeline) { p.runs = s }
}

// New creates a Pipeline around the given synchronizer.
func New(sync Syncer, opts ...Option) *Pipeline {
	p := &Pipeline{
		sync:  sync,
		cache: NewExtractionCache(DefaultCacheCapacity),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithCache replaces the default extraction cache.
func WithCache(c *ExtractionCache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// CanonicalURL normalizes a profile URL so two spellings of the same
// profile produce one identity: lowercased scheme and host, query,
// fragment, and trailing slash stripped. Unparseable input is returned
// trimmed, not rejected; the store then treats it verbatim.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}

// Run executes one enrichment request end to end: normalize and
// canonicalize, extract (cache-aware), classify, sync, draft, and merge
// the draft back into the record. Extraction and store-write failures
// are fatal; classification and drafting degrade to diagnostics.
func (p *Pipeline) Run(ctx context.Context, req model.EnrichmentRequest) (*model.EnrichmentResult, error) {
	started := time.Now()

	profile := normalize.Profile(req.Profile)
	profile.LinkedInURL = CanonicalURL(profile.LinkedInURL)

	profile, err := p.enrich(ctx, profile)
	if err != nil {
		p.record(profile, req.Options.Channel, nil, err, started)
		return nil, err
	}

	var diagnostics []string
	profile = p.classifyIfAbsent(ctx, profile, &diagnostics)

	if profile.LinkedInURL == "" {
		// Nothing to key the record on; report what we learned.
		diagnostics = append(diagnostics, "profile has no URL, record store skipped")
		result := &model.EnrichmentResult{
			Diagnostic: strings.Join(diagnostics, "; "),
		}
		p.record(profile, req.Options.Channel, result, nil, started)
		return result, nil
	}

	// Strict order: sync the profile first, draft only after the record
	// write succeeded, then merge the draft in. A fatal store failure
	// must never cost a model call.
	var (
		draft    *model.Draft
		provider string
	)

	ref, err := p.sync.Sync(ctx, profile, records.SyncOptions{
		LinkedInMessage: req.Options.LinkedInMessage,
		EmailMessage:    req.Options.EmailMessage,
	})
	if err != nil {
		p.record(profile, req.Options.Channel, nil, err, started)
		return nil, err
	}

	if req.Options.Channel != "" {
		if p.drafter == nil {
			diagnostics = append(diagnostics, DiagnosticDraftDisabled)
		} else {
			d, diag, draftErr := p.drafter.Generate(ctx, profile, req.Ask, req.Options.Channel)
			if draftErr != nil {
				zap.L().Warn("pipeline: draft generation failed",
					zap.String("profile_url", profile.LinkedInURL),
					zap.Error(draftErr),
				)
			}
			if diag != "" {
				diagnostics = append(diagnostics, diag)
			}
			if d != nil {
				draft = d
				provider = ProviderAnthropic
			}
		}
	}

	if draft != nil && req.Options.SaveToStore {
		merged, mergeErr := p.sync.Sync(ctx, profile, draftSyncOptions(req.Options.Channel, draft))
		if mergeErr != nil {
			p.record(profile, req.Options.Channel, nil, mergeErr, started)
			return nil, mergeErr
		}
		ref = merged
	}

	result := &model.EnrichmentResult{
		Record:     ref,
		Draft:      draft,
		Provider:   provider,
		Diagnostic: strings.Join(diagnostics, "; "),
	}

	p.record(profile, req.Options.Channel, result, nil, started)
	return result, nil
}

// enrich resolves the profile's extracted form: cache hit, fresh
// extraction, or passthrough when there is no raw content to extract.
func (p *Pipeline) enrich(ctx context.Context, profile model.Profile) (model.Profile, error) {
	if p.extractor == nil || profile.RawContent == "" || profile.LinkedInURL == "" {
		return profile, nil
	}

	key := CacheKey(profile.LinkedInURL, profile.RawContent)
	if cached, ok := p.cache.Get(key); ok {
		zap.L().Debug("pipeline: extraction cache hit", zap.String("key", key))
		return mergeProfiles(cached, profile), nil
	}

	extracted, err := p.extractor.Extract(ctx, profile.LinkedInURL, profile.RawContent)
	if err != nil {
		return profile, err
	}
	p.cache.Put(key, extracted)

	return mergeProfiles(extracted, profile), nil
}

// mergeProfiles overlays extracted fields onto the provided ones:
// extraction wins where it found a value, provided fields fill the
// gaps. Raw content is consumed and not carried forward.
func mergeProfiles(extracted, provided model.Profile) model.Profile {
	out := extracted
	out.RawContent = ""
	if out.Name == "" {
		out.Name = provided.Name
	}
	if out.Role == "" {
		out.Role = provided.Role
	}
	if out.Headline == "" {
		out.Headline = provided.Headline
	}
	if out.Bio == "" {
		out.Bio = provided.Bio
	}
	if out.CurrentCompany == "" {
		out.CurrentCompany = provided.CurrentCompany
	}
	if len(out.Companies) == 0 {
		out.Companies = provided.Companies
	}
	if out.HighestDegree == "" {
		out.HighestDegree = provided.HighestDegree
	}
	if out.Field == "" {
		out.Field = provided.Field
	}
	if len(out.Schools) == 0 {
		out.Schools = provided.Schools
	}
	if out.Location == "" {
		out.Location = provided.Location
	}
	if out.LinkedInURL == "" {
		out.LinkedInURL = provided.LinkedInURL
	}
	if len(out.Experience) == 0 {
		out.Experience = provided.Experience
	}
	return normalize.Profile(out)
}

// classifyIfAbsent resolves a missing taxonomy field: the role keyword
// heuristic first, the model classifier when the role gives nothing.
// Failures are non-fatal and leave the field absent.
func (p *Pipeline) classifyIfAbsent(ctx context.Context, profile model.Profile, diagnostics *[]string) model.Profile {
	if profile.Field != "" {
		return profile
	}

	if profile.Role != "" {
		profile.Field = normalize.HeuristicField(profile.Role)
		return profile
	}

	if p.classifier == nil {
		return profile
	}
	field, err := p.classifier.Classify(ctx, profile)
	if err != nil {
		zap.L().Warn("pipeline: classification failed",
			zap.String("profile_url", profile.LinkedInURL),
			zap.Error(err),
		)
		*diagnostics = append(*diagnostics, "field classification unavailable")
		return profile
	}
	profile.Field = field
	return profile
}

// draftSyncOptions routes a generated draft to its channel's message
// property for the follow-up merge.
func draftSyncOptions(channel model.Channel, draft *model.Draft) records.SyncOptions {
	text := draft.Body
	if channel == model.ChannelEmail && draft.Subject != "" {
		text = fmt.Sprintf("Subject: %s\n\n%s", draft.Subject, draft.Body)
	}
	if channel == model.ChannelEmail {
		return records.SyncOptions{EmailMessage: text}
	}
	return records.SyncOptions{LinkedInMessage: text}
}

// record writes one run-log entry. Best effort: a run store failure is
// logged and never surfaces to the caller.
func (p *Pipeline) record(profile model.Profile, channel model.Channel, result *model.EnrichmentResult, runErr error, started time.Time) {
	if p.runs == nil {
		return
	}

	run := model.Run{
		ProfileURL: profile.LinkedInURL,
		Channel:    channel,
		Status:     model.RunStatusComplete,
		DurationMS: time.Since(started).Milliseconds(),
	}
	if runErr != nil {
		run.Status = model.RunStatusFailed
		run.Error = eris.ToString(runErr, false)
	}
	if result != nil {
		run.Diagnostic = result.Diagnostic
		if result.Record != nil {
			run.PageID = result.Record.PageID
		}
	}

	// Detached context: the run log outlives a canceled request.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := p.runs.RecordRun(ctx, run); err != nil {
		zap.L().Warn("pipeline: run log write failed", zap.Error(err))
	}
}
