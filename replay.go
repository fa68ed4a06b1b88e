package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"kitchen-menu/models"
	"kitchen-menu/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReplayCmd() *cobra.Command {
	var (
		menuFile string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Run a scripted sequence of intents against an in-memory session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			menu, err := services.LoadMenu(menuFile)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			intents, err := services.ParseScript(f)
			if err != nil {
				return err
			}

			log := zap.NewNop()
			if verbose {
				if log, err = zap.NewDevelopment(); err != nil {
					return err
				}
			}
			catalog, err := services.NewCatalog(menu, services.NewItemID)
			if err != nil {
				return err
			}
			s := services.NewSession("replay", services.NewEngine(catalog), nil, log)
			defer s.Close()

			out := cmd.OutOrStdout()
			return services.Replay(cmd.Context(), s, intents, func(step int, r services.StepResult) {
				printStep(out, step, r)
			})
		},
	}
	cmd.Flags().StringVar(&menuFile, "menu", "", "seed menu YAML (default: embedded menu)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every intent")
	return cmd
}

func printStep(w io.Writer, step int, r services.StepResult) {
	fmt.Fprintf(w, "#%d %s", step, r.Intent.Kind())
	if r.Err != nil {
		fmt.Fprintf(w, " rejected: %v\n", r.Err)
		return
	}
	fmt.Fprintf(w, " -> %d of %d\n", len(r.View.Items), r.View.Total)
	for _, it := range r.View.Items {
		fmt.Fprintf(w, "   %-24s R%-5d %-12s %s\n", it.Name, it.Price, it.Course, dietMarks(it))
	}
}

func dietMarks(it models.MenuItem) string {
	var marks []string
	if it.Vegetarian {
		marks = append(marks, "veg")
	}
	if it.Vegan {
		marks = append(marks, "vegan")
	}
	return strings.Join(marks, ",")
}
