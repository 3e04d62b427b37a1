package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/connoction/outreach-cli/internal/pipeline"
	"github.com/connoction/outreach-cli/internal/records"
	"github.com/connoction/outreach-cli/internal/store"
	anthropicpkg "github.com/connoction/outreach-cli/pkg/anthropic"
	"github.com/connoction/outreach-cli/pkg/notion"
)

// pipelineEnv holds the initialized clients, store, and pipeline needed
// by the serve/enrich commands.
type pipelineEnv struct {
	Store     store.Store
	Pipeline  *pipeline.Pipeline
	Notion    notion.Client
	Templates *pipeline.DraftTemplates
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens and migrates the run-log database.
func initStore(ctx context.Context) (store.Store, error) {
	dsn := cfg.Store.Path
	if dsn == "" {
		dsn = "outreach.db"
	}
	st, err := store.NewSQLite(dsn)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initPipeline sets up the store, API clients, and the pipeline.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	notionClient := notion.NewClient(cfg.Notion.Token)
	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

	sync := records.New(notionClient, cfg.Notion.ProfileDB)

	drafter := pipeline.NewDraftGenerator(anthropicClient, cfg.Anthropic.DraftModel, cfg.Draft.Provider)
	var templates *pipeline.DraftTemplates
	if cfg.Draft.TemplatesPath != "" {
		templates, err = pipeline.LoadDraftTemplates(cfg.Draft.TemplatesPath)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		drafter.SetTemplates(templates)
	}

	p := pipeline.New(sync,
		pipeline.WithExtractor(pipeline.NewExtractor(anthropicClient, cfg.Anthropic.ExtractModel, cfg.Extract.MaxChars)),
		pipeline.WithClassifier(pipeline.NewFieldClassifier(anthropicClient, cfg.Anthropic.ClassifyModel)),
		pipeline.WithDrafter(drafter),
		pipeline.WithCache(pipeline.NewExtractionCache(cfg.Cache.Capacity)),
		pipeline.WithRunStore(st),
	)

	return &pipelineEnv{
		Store:     st,
		Pipeline:  p,
		Notion:    notionClient,
		Templates: templates,
	}, nil
}
