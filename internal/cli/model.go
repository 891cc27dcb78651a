package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/engine"
)

func (a *app) newModelCommand() *cobra.Command {
	in := &inputFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "model [input]",
		Short: "Write the constraint model in OPB format without solving",
		Long: `Build the 0/1 model that solve would hand to the backend and write it in the
OPB pseudo-boolean format, for inspection or for external solvers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			input, err := a.resolve(cmd, in, args)
			if err != nil {
				return err
			}
			f, err := engine.New(input.Settings, nil).Formulate(input.Problem)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, ferr := os.Create(output)
				if ferr != nil {
					return ferr
				}
				defer func() {
					if cerr := file.Close(); err == nil {
						err = cerr
					}
				}()
				w = file
			}
			if err := f.Model.WriteOPB(w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d slots, %d variables (%d assignment)\n",
				f.Slots, f.Model.NumVars(), f.AssignmentVars())
			return nil
		},
	}

	in.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the model to this file instead of stdout")
	return cmd
}
