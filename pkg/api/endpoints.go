// Package api exposes search, normalization and fragment building over HTTP and MCP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/hazyhaar/unifold/pkg/fold"
	"github.com/hazyhaar/unifold/pkg/kit"
	"github.com/hazyhaar/unifold/pkg/store"
)

// Shared request/response types used by both HTTP and MCP transports.

type searchReq struct {
	Query store.Query
}

type searchResponse struct {
	Query   store.Query   `json:"query"`
	Count   int           `json:"count"`
	Results []store.Entry `json:"results"`
}

type normalizeReq struct {
	Text string `json:"text"`
}

type normalizeResponse struct {
	Text         string `json:"text"`
	Normalized   string `json:"normalized"`
	NeedsUnicode bool   `json:"needs_unicode"`
}

type expressionReq struct {
	Column string
	Match  store.Match
	Text   string
}

type expressionResponse struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args"`
}

// endpoints bundles the transport-agnostic actions.
type endpoints struct {
	search     kit.Endpoint
	normalize  kit.Endpoint
	expression kit.Endpoint
}

func newEndpoints(st *store.Store, logger *slog.Logger) *endpoints {
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.RequestID(), kit.Logging(logger, name))(ep)
	}
	return &endpoints{
		search:     wrap("search", searchEndpoint(st)),
		normalize:  wrap("normalize", normalizeEndpoint()),
		expression: wrap("expression", expressionEndpoint()),
	}
}

func searchEndpoint(st *store.Store) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*searchReq)
		results, err := st.Search(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		return searchResponse{Query: req.Query, Count: len(results), Results: results}, nil
	}
}

func normalizeEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*normalizeReq)
		return normalizeResponse{
			Text:         req.Text,
			Normalized:   fold.NormalizeForSearch(req.Text),
			NeedsUnicode: fold.NeedsUnicodeProcessing(req.Text),
		}, nil
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func expressionEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*expressionReq)
		return buildExpression(req.Column, req.Match, req.Text)
	}
}

// buildExpression renders the fragment a match mode produces for column.
func buildExpression(column string, match store.Match, text string) (expressionResponse, error) {
	if !identifier.MatchString(column) {
		return expressionResponse{}, fmt.Errorf("invalid column identifier %q", column)
	}
	sql, args, err := store.Fragment(column, match, text)
	if err != nil {
		return expressionResponse{}, err
	}
	return expressionResponse{SQL: sql, Args: args}, nil
}
