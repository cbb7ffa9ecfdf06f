package pipeline

import (
	"context"
	"time"

	"github.com/Errze/note-bad-ideas/pkg/observability"
	"github.com/Errze/note-bad-ideas/pkg/source"
)

// Load reads one group from src and reports it to the pipeline hooks.
func Load(ctx context.Context, src source.Source, group string) (*source.Result, error) {
	start := time.Now()
	res, err := src.Documents(ctx, group)
	docs, skipped := 0, 0
	if res != nil {
		docs, skipped = len(res.Documents), res.Skipped
	}
	observability.Pipeline().OnLoadComplete(ctx, group, docs, skipped, time.Since(start), err)
	return res, err
}
