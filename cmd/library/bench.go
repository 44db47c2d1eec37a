package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

type benchResult struct {
	Books        int     `json:"books"`
	Failed       int     `json:"failed"`
	TotalSeconds float64 `json:"total_seconds"`
	PerBookMS    float64 `json:"per_book_ms"`
}

func newBenchCommand(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Insert synthetic books and report the write latency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("%w: count must be positive", catalog.ErrInvalidInput)
			}

			run := uuid.NewString()[:8]
			result := benchResult{Books: count}
			start := time.Now()

			for i := range count {
				book, err := catalog.BuildBook(
					fmt.Sprintf("BENCH-%s-%06d", run, i),
					fmt.Sprintf("Benchmark Book %d", i),
					"Benchmark Author",
					"Benchmark",
					"Benchmark Press",
					2024,
					5,
				)
				if err != nil {
					return err
				}

				if err = a.lib.Store.CreateBook(cmd.Context(), book); err != nil {
					a.logger.Warn("bench insert failed", "isbn", book.ISBN, "error", err.Error())
					result.Failed++
				}
			}

			elapsed := time.Since(start)
			result.TotalSeconds = elapsed.Seconds()
			result.PerBookMS = float64(elapsed.Microseconds()) / 1000 / float64(count)

			return a.emit(cmd.OutOrStdout(), result, func() error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(),
					"inserted %d books (%d failed) in %.3fs, %.3fms per book\n",
					count-result.Failed, result.Failed, result.TotalSeconds, result.PerBookMS)

				return err
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 1000, "number of books to insert")

	return cmd
}
