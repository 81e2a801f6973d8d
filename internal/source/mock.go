package source

import (
	"context"

	"github.com/rshade/resinhook/internal/dataset"
	"github.com/rshade/resinhook/internal/engine/export"
	"github.com/rshade/resinhook/internal/mockdata"
)

// Mock returns a producer over generated bank data.
func Mock(gen *mockdata.Generator, q mockdata.Query) export.Producer {
	return func(ctx context.Context) ([]*dataset.Row, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return gen.Generate(q), nil
	}
}
