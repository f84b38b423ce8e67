// Package query filters JSON documents with jq expressions.
package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/mj1618/macpilot/internal/axtree"
)

// Query is a compiled jq expression.
type Query struct {
	expr string
	code *gojq.Code
}

// Compile parses and compiles expr.
func Compile(expr string) (*Query, error) {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid jq query: %w", err)
	}
	return &Query{expr: expr, code: code}, nil
}

func (q *Query) String() string { return q.expr }

// Run evaluates the query against doc, a JSON text, and collects every
// result.
func (q *Query) Run(ctx context.Context, doc string) ([]any, error) {
	var input any
	if err := json.Unmarshal([]byte(doc), &input); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}
	results := []any{}
	iter := q.code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

// Apply evaluates the query and renders the outcome the way documents are
// rendered elsewhere: a single result alone, any other count as an array.
func (q *Query) Apply(ctx context.Context, doc string) (string, error) {
	results, err := q.Run(ctx, doc)
	if err != nil {
		return "", err
	}
	if len(results) == 1 {
		return axtree.RenderValue(results[0]), nil
	}
	return axtree.RenderValue(results), nil
}

// Apply compiles expr and applies it to doc. An empty expression returns doc
// unchanged.
func Apply(ctx context.Context, expr, doc string) (string, error) {
	if expr == "" {
		return doc, nil
	}
	q, err := Compile(expr)
	if err != nil {
		return "", err
	}
	return q.Apply(ctx, doc)
}
