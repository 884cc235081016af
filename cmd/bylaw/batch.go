package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/parcelworks/bylaw/property"
	"github.com/parcelworks/bylaw/zoning"
)

// batchResult pairs a property with its evaluation outcome. Exactly one
// of Result and Error is set.
type batchResult struct {
	ID     string                       `json:"id"`
	Result *zoning.DevelopmentPotential `json:"result,omitempty"`
	Error  string                       `json:"error,omitempty"`
}

func batchCmd() *cobra.Command {
	var (
		provisionsPath string
		workers        int
	)

	cmd := &cobra.Command{
		Use:   "batch <pattern>...",
		Short: "Evaluate property documents matched by glob patterns",
		Long: `Batch loads property documents (YAML or JSON, ** patterns supported)
and evaluates each one, writing one JSON result per line to stdout.
Evaluations run in parallel; a failure on one property is reported in its
result line and never stops the rest of the batch.`,
		Example: `  bylaw batch 'properties/**/*.yaml'
  bylaw batch --workers 8 'ward1/*.yaml' 'ward2/*.yaml'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := newEvaluator(provisionsPath)
			if err != nil {
				return err
			}

			records, err := property.Glob(args)
			if err != nil {
				return err
			}

			if workers < 1 {
				workers = runtime.NumCPU()
			}

			results := make([]batchResult, len(records))
			jobs := make(chan int)
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for idx := range jobs {
						rec := records[idx]
						out := batchResult{ID: rec.ID}
						res, err := ev.Evaluate(rec.Designation, rec.Geometry)
						if err != nil {
							out.Error = err.Error()
						} else {
							out.Result = res
						}
						results[idx] = out
					}
				}()
			}
			for idx := range records {
				jobs <- idx
			}
			close(jobs)
			wg.Wait()

			enc := json.NewEncoder(os.Stdout)
			failed := 0
			for _, out := range results {
				if out.Error != "" {
					failed++
				}
				if err := enc.Encode(out); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d properties failed", failed, len(records))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&provisionsPath, "provisions", "", "Special provisions YAML file")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel evaluations (default: CPU count)")

	return cmd
}
