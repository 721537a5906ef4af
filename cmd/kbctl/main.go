// Command kbctl builds and inspects a knowledge-graph SQLite file and
// can run a single context assembly against it from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/narrativekit/kb/internal/logging"
	"github.com/narrativekit/kb/pkg/assembler"
	"github.com/narrativekit/kb/pkg/ids"
	"github.com/narrativekit/kb/pkg/kb"
	"github.com/narrativekit/kb/pkg/persist"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kbctl",
	Short: "CLI for building and querying a narrative knowledge graph",
	Long:  "A command-line interface for adding facts and associations to a knowledge graph file, deriving co-occurrence edges, and running a spreading-activation query against it.",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new, empty knowledge graph database",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := persist.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.Close()

		if err := store.InitSchema(context.Background()); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}

		fmt.Printf("knowledge graph initialized at %s\n", dbPath)
		return nil
	},
}

var factCmd = &cobra.Command{
	Use:   "fact",
	Short: "Manage facts",
}

var factAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Add a fact with one or more concept tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tagsStr, _ := cmd.Flags().GetString("tags")
		importance, _ := cmd.Flags().GetFloat64("importance")

		store, graph, err := openGraph()
		if err != nil {
			return err
		}
		defer store.Close()

		f := kb.NewFact(args[0]).WithImportance(importance)
		for _, name := range splitNonEmpty(tagsStr, ",") {
			f = f.WithTag(kb.ConceptTag(name))
		}
		graph.AddFact(f)

		if err := store.SaveGraph(context.Background(), graph); err != nil {
			return fmt.Errorf("failed to save graph: %w", err)
		}

		fmt.Printf("fact %s added\n", f.ID)
		return nil
	},
}

var factRevealCmd = &cobra.Command{
	Use:   "reveal <fact-id>",
	Short: "Mark a fact as revealed to the player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseFactIDArg(args[0])
		if err != nil {
			return err
		}

		store, graph, err := openGraph()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := graph.RevealFactStrict(id); err != nil {
			return err
		}

		if err := store.SaveGraph(context.Background(), graph); err != nil {
			return fmt.Errorf("failed to save graph: %w", err)
		}

		fmt.Printf("fact %s revealed\n", id)
		return nil
	},
}

var assocCmd = &cobra.Command{
	Use:   "assoc",
	Short: "Manage tag associations",
}

var assocAddCmd = &cobra.Command{
	Use:   "add <from-concept> <to-concept> <weight>",
	Short: "Add a direct association between two concept tags",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q: %w", args[2], err)
		}

		store, graph, err := openGraph()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := graph.AddAssociation(kb.ConceptTag(args[0]), kb.ConceptTag(args[1]), weight, kb.AssociationDirect); err != nil {
			return err
		}

		if err := store.SaveGraph(context.Background(), graph); err != nil {
			return fmt.Errorf("failed to save graph: %w", err)
		}

		fmt.Printf("association %s -> %s (%.2f) added\n", args[0], args[1], weight)
		return nil
	},
}

var cooccurCmd = &cobra.Command{
	Use:   "cooccur",
	Short: "Derive co-occurrence associations from the facts currently stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, graph, err := openGraph()
		if err != nil {
			return err
		}
		defer store.Close()

		graph.BuildCoOccurrenceAssociations()

		if err := store.SaveGraph(context.Background(), graph); err != nil {
			return fmt.Errorf("failed to save graph: %w", err)
		}

		fmt.Println("co-occurrence associations derived and saved")
		return nil
	},
}

var assembleCmd = &cobra.Command{
	Use:   "assemble <trigger-concept>",
	Short: "Run spreading activation from a trigger concept tag and print the assembled facts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold, _ := cmd.Flags().GetFloat64("threshold")

		store, graph, err := openGraph()
		if err != nil {
			return err
		}
		defer store.Close()

		asm := newAssembler(threshold)
		state := asm.SpreadActivation(graph, []kb.Tag{kb.ConceptTag(args[0])})
		facts := asm.CollectFacts(graph, state)

		for _, hot := range state.HotTags(threshold) {
			fmt.Printf("tag %s energy %.3f\n", hot.Tag, hot.Energy)
		}
		fmt.Println("---")
		for _, f := range facts {
			fmt.Printf("[%.2f] %s\n", f.Importance, f.Content)
		}
		return nil
	},
}

func newAssembler(threshold float64) *assembler.ContextAssembler {
	config := assembler.DefaultConfig()
	config.EnergyThreshold = threshold
	return assembler.New(config, assembler.WithLogger(newLogger()))
}

// newLogger returns a logger that writes Debug-and-up lines to stdout
// when --verbose is set, or discards everything otherwise.
func newLogger() logging.Logger {
	if verbose {
		return logging.NewStdLogger(logging.LevelDebug)
	}
	return logging.NopLogger()
}

func openGraph() (*persist.Store, *kb.Graph, error) {
	store, err := persist.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	ctx := context.Background()
	if err := store.InitSchema(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	graph, err := store.LoadGraph(ctx, kb.WithLogger(newLogger()))
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load graph: %w", err)
	}
	return store, graph, nil
}

func parseFactIDArg(s string) (ids.FactID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ids.FactID{}, fmt.Errorf("invalid fact id %q: %w", s, err)
	}
	return ids.FactID(u), nil
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "kb.db", "knowledge graph database file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log graph and assembler activity to stdout")

	factCmd.AddCommand(factAddCmd, factRevealCmd)
	factAddCmd.Flags().String("tags", "", "comma-separated concept tags")
	factAddCmd.Flags().Float64("importance", 0.5, "fact importance, 0.0-1.0")

	assocCmd.AddCommand(assocAddCmd)

	assembleCmd.Flags().Float64("threshold", 0.1, "energy threshold for hot tags and fact selection")

	rootCmd.AddCommand(initCmd, factCmd, assocCmd, cooccurCmd, assembleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
