package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"codegraph/internal/config"
	"codegraph/internal/query"
)

var (
	sliceQuiet       bool
	sliceLanguages   []string
	sliceJavaBackend string
	sliceOutput      string
	sliceFormat      string
	sliceNeighbors   int
)

// sliceCmd represents the slice command
var sliceCmd = &cobra.Command{
	Use:   "slice {controllers|listeners} [path]",
	Short: "Extract a canned subgraph around controllers or listeners",
	Long: `Slice builds the graph and extracts one of the canned subgraphs:

  controllers  nodes carrying controller-marker or HTTP-mapping annotations
  listeners    nodes carrying message/event-listener annotations, plus
               classes implementing a listener interface

Seeds expand by --neighbors hops (default from configuration).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSlice,
}

func init() {
	rootCmd.AddCommand(sliceCmd)
	sliceCmd.Flags().BoolVarP(&sliceQuiet, "quiet", "q", true, "Disable progress bars and non-error output")
	sliceCmd.Flags().StringSliceVar(&sliceLanguages, "lang", nil, "Languages to parse (java, python); default all")
	sliceCmd.Flags().StringVar(&sliceJavaBackend, "java-backend", "", "Java front end: treesitter or cst")
	sliceCmd.Flags().StringVarP(&sliceOutput, "output", "o", "", "Output file (default stdout)")
	sliceCmd.Flags().StringVar(&sliceFormat, "format", "json", "Output format: json or dot")
	sliceCmd.Flags().IntVarP(&sliceNeighbors, "neighbors", "n", -1, "Expand seeds by k hops (default from config)")
}

func runSlice(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rootDir, err := rootDirFromArgs(args[1:])
	if err != nil {
		return err
	}

	k := sliceNeighbors
	if k < 0 {
		cfg, err := config.LoadConfigFromDir(rootDir)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		k = cfg.Query.DefaultNeighbors
	}

	g, _, err := buildGraph(ctx, rootDir, sliceQuiet, sliceLanguages, sliceJavaBackend)
	if err != nil {
		return err
	}

	switch args[0] {
	case "controllers":
		return writeGraph(query.ControllerSlice(g, k), sliceOutput, sliceFormat)
	case "listeners":
		return writeGraph(query.ListenerSlice(g, k), sliceOutput, sliceFormat)
	default:
		return fmt.Errorf("unknown slice: %q (supported: controllers, listeners)", args[0])
	}
}
