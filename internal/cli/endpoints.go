package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"codegraph/internal/query"
)

var (
	endpointsQuiet       bool
	endpointsJavaBackend string
	endpointsOutput      string
	endpointsFormat      string
)

// endpointsCmd represents the endpoints command
var endpointsCmd = &cobra.Command{
	Use:   "endpoints [path]",
	Short: "List the HTTP endpoint matrix derived from framework annotations",
	Long: `Endpoints builds the graph and prints one row per handler method carrying
route metadata: verbs, combined paths, media types, and parameter bindings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEndpoints,
}

func init() {
	rootCmd.AddCommand(endpointsCmd)
	endpointsCmd.Flags().BoolVarP(&endpointsQuiet, "quiet", "q", true, "Disable progress bars and non-error output")
	endpointsCmd.Flags().StringVar(&endpointsJavaBackend, "java-backend", "", "Java front end: treesitter or cst")
	endpointsCmd.Flags().StringVarP(&endpointsOutput, "output", "o", "", "Output file (default stdout)")
	endpointsCmd.Flags().StringVar(&endpointsFormat, "format", "table", "Output format: table or json")
}

func runEndpoints(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rootDir, err := rootDirFromArgs(args)
	if err != nil {
		return err
	}

	g, _, err := buildGraph(ctx, rootDir, endpointsQuiet, nil, endpointsJavaBackend)
	if err != nil {
		return err
	}
	rows := query.Endpoints(g)

	var w io.Writer = os.Stdout
	if endpointsOutput != "" {
		f, err := os.Create(endpointsOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch endpointsFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table":
		return writeEndpointTable(w, rows)
	default:
		return fmt.Errorf("unknown format: %q (supported: table, json)", endpointsFormat)
	}
}

func writeEndpointTable(w io.Writer, rows []query.Endpoint) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERBS\tPATH\tHANDLER\tPATH VARS\tQUERY\tSTATUS")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			strings.Join(row.Verbs, ","),
			strings.Join(row.Paths, ","),
			row.FQN,
			strings.Join(row.PathVariables, ","),
			strings.Join(row.QueryParams, ","),
			row.ResponseStatus)
	}
	return tw.Flush()
}
