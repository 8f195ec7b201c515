package cli

import (
	"github.com/spf13/cobra"

	"codegraph/internal/graph"
	"codegraph/internal/query"
)

var (
	queryQuiet       bool
	queryLanguages   []string
	queryJavaBackend string
	queryOutput      string
	queryFormat      string

	queryText        string
	queryKind        string
	queryNameRegex   string
	queryFileRegex   string
	queryAnnotations []string
	queryAnnoTexts   []string
	queryExtends     string
	queryImplements  string
	queryCalls       string
	queryPathRegex   string
	queryVerbs       []string
	queryProduces    string
	queryConsumes    string
	queryPathVars    bool
	queryNoPathVars  bool
	queryNeighbors   int
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [path]",
	Short: "Build a graph and select nodes with predicates",
	Long: `Query builds the graph for a source tree, selects every node matching all
given predicates, and prints the induced subgraph. With --neighbors the
matched set is expanded k hops across all edge kinds first.

A query that matches nothing prints an empty graph.

Examples:
  # Every class annotated @RestController
  codegraph query --kind class --annotation @RestController

  # Handler methods under /api with a path variable, plus direct neighbors
  codegraph query --path-regex '^/api' --has-path-vars --neighbors 1

  # Anything whose name or fqn matches a regex
  codegraph query --name-regex 'Repository$'
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().BoolVarP(&queryQuiet, "quiet", "q", true, "Disable progress bars and non-error output")
	queryCmd.Flags().StringSliceVar(&queryLanguages, "lang", nil, "Languages to parse (java, python); default all")
	queryCmd.Flags().StringVar(&queryJavaBackend, "java-backend", "", "Java front end: treesitter or cst")
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "", "Output file (default stdout)")
	queryCmd.Flags().StringVar(&queryFormat, "format", "json", "Output format: json or dot")

	queryCmd.Flags().StringVar(&queryText, "text", "", "Substring of name, fqn, annotation, or file path")
	queryCmd.Flags().StringVar(&queryKind, "kind", "", "Node kind: file, class, interface, enum, method, function")
	queryCmd.Flags().StringVar(&queryNameRegex, "name-regex", "", "Regex against name or fqn")
	queryCmd.Flags().StringVar(&queryFileRegex, "file-regex", "", "Regex against file path")
	queryCmd.Flags().StringSliceVar(&queryAnnotations, "annotation", nil, "Annotation names, matched exactly")
	queryCmd.Flags().StringSliceVar(&queryAnnoTexts, "annotation-text", nil, "Rendered annotation text prefixes")
	queryCmd.Flags().StringVar(&queryExtends, "extends", "", "Supertype name suffix")
	queryCmd.Flags().StringVar(&queryImplements, "implements", "", "Implemented interface name suffix")
	queryCmd.Flags().StringVar(&queryCalls, "calls", "", "Substring of a called method's fqn or name")
	queryCmd.Flags().StringVar(&queryPathRegex, "path-regex", "", "Regex against combined HTTP paths")
	queryCmd.Flags().StringSliceVar(&queryVerbs, "verb", nil, "HTTP verbs (GET, POST, ...)")
	queryCmd.Flags().StringVar(&queryProduces, "produces", "", "Produced media type")
	queryCmd.Flags().StringVar(&queryConsumes, "consumes", "", "Consumed media type")
	queryCmd.Flags().BoolVar(&queryPathVars, "has-path-vars", false, "Only routes with in-path variables")
	queryCmd.Flags().BoolVar(&queryNoPathVars, "no-path-vars", false, "Only routes without in-path variables")
	queryCmd.Flags().IntVarP(&queryNeighbors, "neighbors", "n", 0, "Expand matches by k hops")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rootDir, err := rootDirFromArgs(args)
	if err != nil {
		return err
	}

	g, _, err := buildGraph(ctx, rootDir, queryQuiet, queryLanguages, queryJavaBackend)
	if err != nil {
		return err
	}

	f := query.Filter{
		Text:               queryText,
		Kind:               graph.NodeKind(queryKind),
		NameRegex:          queryNameRegex,
		FileRegex:          queryFileRegex,
		AnnotationsAny:     queryAnnotations,
		AnnotationTextsAny: queryAnnoTexts,
		ExtendsSuffix:      queryExtends,
		ImplementsSuffix:   queryImplements,
		CallsContains:      queryCalls,
		PathRegex:          queryPathRegex,
		Verbs:              queryVerbs,
		Produces:           queryProduces,
		Consumes:           queryConsumes,
		Neighbors:          queryNeighbors,
	}
	if cmd.Flags().Changed("has-path-vars") {
		v := queryPathVars
		f.HasPathVariables = &v
	} else if cmd.Flags().Changed("no-path-vars") {
		v := !queryNoPathVars
		f.HasPathVariables = &v
	}

	result, err := query.Run(g, f)
	if err != nil {
		return err
	}
	return writeGraph(result, queryOutput, queryFormat)
}
