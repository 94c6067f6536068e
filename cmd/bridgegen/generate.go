package main

import (
	"fmt"
	"os"

	"github.com/chazu/bridgegen/cache"
	"github.com/spf13/cobra"
)

var (
	generateOutDir   string
	generateFeatures []string
	generatePrefix   string
	generateNoCache  bool
	generateJobs     int
)

func init() {
	generateCmd.Flags().StringVarP(&generateOutDir, "output", "o", "", "write all artifacts to this directory")
	generateCmd.Flags().StringSliceVar(&generateFeatures, "feature", nil, "enable a feature (repeatable)")
	generateCmd.Flags().StringVar(&generatePrefix, "prefix", "", "boundary symbol prefix")
	generateCmd.Flags().BoolVar(&generateNoCache, "no-cache", false, "always regenerate")
	generateCmd.Flags().IntVarP(&generateJobs, "jobs", "j", 0, "modules generated in parallel (0 = GOMAXPROCS)")
}

// generateCmd processes `bridgegen generate`.
// Usage:
//
//	bridgegen generate                     # all modules from bridgegen.toml
//	bridgegen generate ffi/counter.toml    # single description, ad-hoc
//	bridgegen generate -o ./out            # custom output dir
var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Write the Rust, Swift and C artifacts of bridge descriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(".", args, generatePrefix, generateFeatures)
		if err != nil {
			return err
		}

		var store *cache.Store
		if p.m.CacheEnabled() && !generateNoCache {
			store, err = cache.Open(p.m.CachePath())
			if err != nil {
				printWarning(os.Stderr, "cache disabled: %v", err)
				store = nil
			} else {
				defer store.Close()
			}
		}

		results, err := generateAll(cmd.Context(), p, store, generateJobs)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				printError(os.Stderr, r.Err)
				failed++
				continue
			}
			rust, swift, header := p.outputPaths(r.Module, generateOutDir)
			if err := writeArtifacts(r.Module, r.Out, rust, swift, header); err != nil {
				printError(os.Stderr, err)
				failed++
				continue
			}
			if !quiet(cmd) {
				note := ""
				if r.Cached {
					note = " (cached)"
				}
				printOK(os.Stderr, "%s -> %s, %s, %s%s", r.Module, rust, swift, header, note)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d module(s) failed", failed, len(results))
		}
		return nil
	},
}
