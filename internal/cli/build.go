package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"codegraph/internal/export"
	"codegraph/internal/graph"
)

var (
	buildQuiet       bool
	buildLanguages   []string
	buildJavaBackend string
	buildOutput      string
	buildFormat      string
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build a code graph from a source tree",
	Long: `Build walks a source tree, parses every Java and Python file, merges the
results into one graph, and runs the resolution passes (override
derivation, then call resolution).

A file that fails to parse is recorded as a degraded file node; it never
aborts the build.

Examples:
  # Build the current directory and print the graph as JSON
  codegraph build

  # Build a specific tree and write Graphviz DOT
  codegraph build /path/to/repo --format dot -o graph.dot

  # Restrict to one language
  codegraph build --lang java
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "Disable progress bars and non-error output")
	buildCmd.Flags().StringSliceVar(&buildLanguages, "lang", nil, "Languages to parse (java, python); default all")
	buildCmd.Flags().StringVar(&buildJavaBackend, "java-backend", "", "Java front end: treesitter or cst")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output file (default stdout)")
	buildCmd.Flags().StringVar(&buildFormat, "format", "json", "Output format: json or dot")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rootDir, err := rootDirFromArgs(args)
	if err != nil {
		return err
	}

	g, _, err := buildGraph(ctx, rootDir, buildQuiet, buildLanguages, buildJavaBackend)
	if err != nil {
		return err
	}

	return writeGraph(g, buildOutput, buildFormat)
}

// writeGraph serializes a graph to a file or stdout in the requested format.
func writeGraph(g *graph.CodeGraph, output, format string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return export.WriteJSON(g, w)
	case "dot":
		return export.WriteDOT(g, w)
	default:
		return fmt.Errorf("unknown format: %q (supported: json, dot)", format)
	}
}
