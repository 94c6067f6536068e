package main

import (
	"fmt"
	"os"

	"github.com/chazu/bridgegen/bridgefile"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate bridge descriptions without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(".", args, "", nil)
		if err != nil {
			return err
		}
		failed := 0
		for _, file := range p.files {
			if err := checkFile(file); err != nil {
				printError(os.Stderr, err)
				failed++
				continue
			}
			if !quiet(cmd) {
				printOK(os.Stderr, "%s", file)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d description(s) invalid", failed, len(p.files))
		}
		return nil
	},
}

// checkFile parses, validates and resolves one description.
func checkFile(file string) error {
	doc, err := bridgefile.Load(file)
	if err != nil {
		return err
	}
	_, err = doc.BuildModule()
	return err
}
