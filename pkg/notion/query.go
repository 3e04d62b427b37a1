package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryFirst runs a filtered query and returns the first matching page,
// or (nil, false) when no page matches. Callers that need exactly-one
// semantics (identity lookups) use PageSize 1; additional matches are
// ignored by contract.
func QueryFirst(ctx context.Context, c Client, dbID string, filter notionapi.Filter) (*notionapi.Page, bool, error) {
	resp, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
		Filter:   filter,
		PageSize: 1,
	})
	if err != nil {
		return nil, false, eris.Wrap(err, "notion: query first")
	}
	if len(resp.Results) == 0 {
		return nil, false, nil
	}
	return &resp.Results[0], true, nil
}

// QueryByTextProperty builds an exact-match filter on a rich_text
// property and returns the first matching page. The API exposes no
// filter condition for url-typed properties, so exact-lookup columns
// (the profile identity) are rich_text in the database schema.
func QueryByTextProperty(ctx context.Context, c Client, dbID, property, value string) (*notionapi.Page, bool, error) {
	filter := notionapi.PropertyFilter{
		Property: property,
		RichText: &notionapi.TextFilterCondition{
			Equals: value,
		},
	}
	return QueryFirst(ctx, c, dbID, filter)
}
