// Package records synchronizes enriched profiles into the Notion
// outreach database: find by identity, then create or merge.
package records

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/connoction/outreach-cli/internal/model"
	"github.com/connoction/outreach-cli/pkg/notion"
)

// ErrWrite marks a failed create or update against the record store.
// Write failures are fatal to the request, unlike lookup failures.
var ErrWrite = eris.New("records: store write failed")

// SyncOptions carries the per-channel messages supplied by the current
// operation. Empty fields are "not supplied" and are never written.
type SyncOptions struct {
	LinkedInMessage string
	EmailMessage    string
}

func (o SyncOptions) hasMessage() bool {
	return o.LinkedInMessage != "" || o.EmailMessage != ""
}

// Synchronizer performs the insert-or-merge protocol against one Notion
// database. Lookup is exact-match on the LinkedIn URL property; two
// differently formatted URLs for the same profile are distinct records,
// so callers canonicalize the identity before syncing.
type Synchronizer struct {
	client notion.Client
	dbID   string
	now    func() time.Time
}

// New creates a Synchronizer for the given database.
func New(client notion.Client, dbID string) *Synchronizer {
	return &Synchronizer{
		client: client,
		dbID:   dbID,
		now:    time.Now,
	}
}

// lookupOutcome distinguishes "no record" from "lookup failed" so the
// caller can degrade the latter instead of overloading one error path.
type lookupOutcome int

const (
	lookupFound lookupOutcome = iota
	lookupNotFound
	lookupError
)

// findByURL locates the existing record for an identity, if any.
func (s *Synchronizer) findByURL(ctx context.Context, url string) (*notionapi.Page, lookupOutcome, error) {
	page, found, err := notion.QueryByTextProperty(ctx, s.client, s.dbID, propLinkedInURL, url)
	if err != nil {
		return nil, lookupError, err
	}
	if !found {
		return nil, lookupNotFound, nil
	}
	return page, lookupFound, nil
}

// Sync upserts a profile: at most one lookup and one write. A record is
// created when no exact identity match exists; otherwise only the
// fields supplied in this operation are merged into the existing record.
// Lookup failure degrades to the create path (over-creation is safer
// than blocking the pipeline); write failure is returned wrapped in
// ErrWrite.
//
// The find-then-write sequence is not atomic: two concurrent first
// syncs for the same identity can both create a record. The store
// contract has no compare-and-swap, and this race is accepted.
func (s *Synchronizer) Sync(ctx context.Context, profile model.Profile, opts SyncOptions) (*model.RecordRef, error) {
	if profile.LinkedInURL == "" {
		return nil, eris.New("records: profile has no identity url")
	}

	log := zap.L().With(zap.String("profile_url", profile.LinkedInURL))

	existing, outcome, err := s.findByURL(ctx, profile.LinkedInURL)
	if outcome == lookupError {
		log.Warn("records: lookup failed, degrading to create path", zap.Error(err))
	}

	if outcome == lookupFound {
		return s.merge(ctx, existing, profile, opts, log)
	}
	return s.create(ctx, profile, opts, log)
}

func (s *Synchronizer) create(ctx context.Context, profile model.Profile, opts SyncOptions, log *zap.Logger) (*model.RecordRef, error) {
	today := s.now()

	props := profileProperties(profile)
	messageProperties(props, opts)

	props[propDateContacted] = dateProp(today)
	props[propLastInteraction] = dateProp(today)

	status := statusNeedToContact
	if opts.hasMessage() {
		status = statusContacted
	}
	props[propStatus] = statusProp(status)

	page, err := s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.dbID),
		},
		Properties: props,
	})
	if err != nil {
		return nil, eris.Wrap(ErrWrite, err.Error())
	}

	log.Info("records: created record",
		zap.String("page_id", string(page.ID)),
		zap.String("status", status),
	)

	return &model.RecordRef{
		PageID:      string(page.ID),
		URL:         page.URL,
		SavedFields: saved(profile),
	}, nil
}

func (s *Synchronizer) merge(ctx context.Context, existing *notionapi.Page, profile model.Profile, opts SyncOptions, log *zap.Logger) (*model.RecordRef, error) {
	props := profileProperties(profile)
	messageProperties(props, opts)

	// Last Interaction Date moves on every sync; Date Contacted is set
	// only at creation and never rewritten.
	props[propLastInteraction] = dateProp(s.now())

	if opts.hasMessage() {
		props[propStatus] = statusProp(statusContacted)
	}

	page, err := s.client.UpdatePage(ctx, string(existing.ID), &notionapi.PageUpdateRequest{
		Properties: props,
	})
	if err != nil {
		return nil, eris.Wrap(ErrWrite, err.Error())
	}

	log.Info("records: merged into existing record",
		zap.String("page_id", string(page.ID)),
		zap.Bool("message_written", opts.hasMessage()),
	)

	return &model.RecordRef{
		PageID:      string(page.ID),
		URL:         page.URL,
		SavedFields: saved(profile),
	}, nil
}

// saved snapshots the fields this operation wrote, without the
// transient raw content.
func saved(p model.Profile) model.Profile {
	p.RawContent = ""
	return p
}
