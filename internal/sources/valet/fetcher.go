package valet

import (
	"context"

	"github.com/agentstation/valetmerge/internal/transport"
	"github.com/agentstation/valetmerge/pkg/constants"
	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/logging"
	"github.com/agentstation/valetmerge/pkg/table"
)

// feed is the part of a Valet response we read. A pointer tells a missing
// or null observations key apart from an empty array.
type feed struct {
	Observations *[]table.Record `json:"observations"`
}

// Fetcher downloads feeds one at a time.
type Fetcher struct {
	client *transport.Client
}

// NewFetcher creates a fetcher. A nil client means transport.New().
func NewFetcher(client *transport.Client) *Fetcher {
	if client == nil {
		client = transport.New()
	}
	return &Fetcher{client: client}
}

// Fetch retrieves one feed and returns its observations as a table.
//
// Every failure leaves the source unavailable: an invalid URL is a
// validation error, a transport failure or non-2xx status an
// *errors.APIError, and a body that is not an object holding an
// observations array of objects an *errors.ParseError.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (*table.Table, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	resp, err := f.client.Get(ctx, src.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &errors.APIError{
			Source:   src.String(),
			Endpoint: src.URL,
			Message:  "request failed",
			Err:      err,
		}
	}

	var body feed
	if err := transport.DecodeResponse(resp, src.String(), &body); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if body.Observations == nil {
		return nil, errors.NewParseError("json", src.URL, "missing "+constants.ObservationsKey+" array", nil)
	}

	return table.FromRecords(*body.Observations), nil
}

// FetchResult holds what FetchAll retrieved.
type FetchResult struct {
	// Tables are the fetched tables in source order.
	Tables []*table.Table
	// Sources are the sources behind Tables, index for index.
	Sources []Source
	// Failures are the sources that contributed nothing.
	Failures []errors.SourceFailure
}

// Rows returns the total row count over all fetched tables.
func (r *FetchResult) Rows() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Len()
	}
	return n
}

// Merged concatenates the fetched tables.
func (r *FetchResult) Merged() *table.Table {
	return table.Concat(r.Tables...)
}

// FetchAll fetches every source in order, one after another. A failed
// source is logged and skipped. When no source succeeds the error is an
// *errors.SourceError matching errors.ErrNoData; a canceled context stops
// the run and returns the context error.
func (f *Fetcher) FetchAll(ctx context.Context, srcs []Source) (*FetchResult, error) {
	result := &FetchResult{}
	for _, src := range srcs {
		logger := logging.FromContext(logging.WithSource(ctx, src.String()))

		t, err := f.Fetch(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.Error().
				Err(err).
				Str("url", src.URL).
				Msg("An error occurred while processing source")
			result.Failures = append(result.Failures, errors.SourceFailure{
				Source: src.String(),
				URL:    src.URL,
				Err:    err,
			})
			continue
		}

		logger.Debug().
			Str("url", src.URL).
			Int("rows", t.Len()).
			Int("columns", t.Width()).
			Msg("Fetched source")
		result.Tables = append(result.Tables, t)
		result.Sources = append(result.Sources, src)
	}

	if len(result.Tables) == 0 {
		return result, &errors.SourceError{Failures: result.Failures}
	}
	return result, nil
}
