package automation

import (
	"context"
	"sync"

	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/experiment"
)

// RunReplicas runs n independent copies of cfg with seeds cfg.Seed,
// cfg.Seed+1, ... in parallel. Each replica owns its engine.
func RunReplicas(ctx context.Context, cfg *config.Config, n int) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			c := cfg.Clone()
			c.Seed = cfg.Seed + int64(idx)

			runner, err := experiment.New(c)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = runner.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
