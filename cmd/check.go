package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"

	"github.com/fleetpdm/pdm/pipeline"
)

// CheckMain is wrapped by NewCheckCommand and only exported for testing
// purposes.
var CheckMain *pipeline.Main

// NewCheckCommand returns a new cobra command wrapping CheckMain. It runs
// the full validation, imputation and cross-source checking flow but writes
// nothing, for gating incoming data drops.
func NewCheckCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var err error
	CheckMain = pipeline.NewMain()
	CheckMain.DryRun = true
	checkCommand := &cobra.Command{
		Use:   "check",
		Short: "validate the five raw sources without writing artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			err = CheckMain.Run()
			if err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := checkCommand.Flags()
	err = commandeer.Flags(flags, CheckMain)
	if err != nil {
		panic(err)
	}
	return checkCommand
}

func init() {
	subcommandFns["check"] = NewCheckCommand
}
