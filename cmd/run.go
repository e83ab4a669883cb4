package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"

	"github.com/fleetpdm/pdm/pipeline"
	"github.com/fleetpdm/pdm/termstat"
)

// RunMain is wrapped by NewRunCommand and only exported for testing purposes.
var RunMain *pipeline.Main

// NewRunCommand returns a new cobra command wrapping RunMain.
func NewRunCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var err error
	RunMain = pipeline.NewMain()
	runCommand := &cobra.Command{
		Use:   "run",
		Short: "ingest the five raw sources and write canonical columnar artifacts",
		Long: `Loads, validates and imputes each of the five sources, checks
referential integrity across them, builds the dataset registry, and
atomically replaces the parquet artifact for each source at the target
location.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			RunMain.SetStatter(termstat.NewCollector(stderr))
			err = RunMain.Run()
			if err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := runCommand.Flags()
	err = commandeer.Flags(flags, RunMain)
	if err != nil {
		panic(err)
	}
	return runCommand
}

func init() {
	subcommandFns["run"] = NewRunCommand
}
