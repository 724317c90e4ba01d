package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theapemachine/contexthub/pkg/memory"
	"github.com/theapemachine/contexthub/pkg/tools"
)

var (
	limitFlag      int
	depthFlag      int
	titleFlag      string
	importanceFlag int

	queryCmd = &cobra.Command{
		Use:   "query <text>",
		Short: "Search memories by semantic similarity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := newAdapter()
			if err != nil {
				return err
			}

			memories, err := adapter.Query(cmd.Context(), args[0], limitFlag)
			if err != nil {
				return err
			}

			return printJSON(memories)
		},
	}

	factsCmd = &cobra.Command{
		Use:   "facts <text>",
		Short: "Search relationships between memories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := newAdapter()
			if err != nil {
				return err
			}

			relationships, err := adapter.SearchFacts(cmd.Context(), args[0], limitFlag)
			if err != nil {
				return err
			}

			return printJSON(relationships)
		},
	}

	saveCmd = &cobra.Command{
		Use:   "save <content>",
		Short: "Save a new memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := newAdapter()
			if err != nil {
				return err
			}

			id, err := adapter.Save(cmd.Context(), args[0], memory.SaveOptions{
				Title:      titleFlag,
				Importance: importanceFlag,
			})
			if err != nil {
				return err
			}

			fmt.Println(id)
			return nil
		},
	}

	recentCmd = &cobra.Command{
		Use:   "recent",
		Short: "List recent memories, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := newAdapter()
			if err != nil {
				return err
			}

			memories, err := adapter.ListRecent(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			return printJSON(memories)
		},
	}

	exploreCmd = &cobra.Command{
		Use:   "explore <starting-point>",
		Short: "Traverse the knowledge graph from a starting point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := newAdapter()
			if err != nil {
				return err
			}

			graph, err := adapter.Explore(cmd.Context(), args[0], depthFlag)
			if err != nil {
				return err
			}

			return printJSON(graph)
		},
	}

	capabilitiesCmd = &cobra.Command{
		Use:   "capabilities",
		Short: "List the operations the configured backend exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := newAdapter()
			if err != nil {
				return err
			}

			return printJSON(adapter.Capabilities())
		},
	}
)

/*
newAdapter builds the adapter facade from the configured backend kind and
group id. Each backend talks to its own configured MCP endpoint.
*/
func newAdapter() (*memory.Adapter, error) {
	kind := memory.Kind(viper.GetString("memory.backend"))
	group := viper.GetString("memory.group")

	return memory.NewAdapterFor(kind, tools.NewMCPInvoker(string(kind)), group)
}

func printJSON(value any) error {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(queryCmd, factsCmd, saveCmd, recentCmd, exploreCmd, capabilitiesCmd)

	queryCmd.Flags().IntVarP(&limitFlag, "limit", "l", 10, "Maximum number of results")
	factsCmd.Flags().IntVarP(&limitFlag, "limit", "l", 10, "Maximum number of results")
	recentCmd.Flags().IntVarP(&limitFlag, "limit", "l", 10, "Maximum number of results")
	exploreCmd.Flags().IntVarP(&depthFlag, "depth", "d", 2, "Traversal depth")
	saveCmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Title for the memory")
	saveCmd.Flags().IntVarP(&importanceFlag, "importance", "i", 0, "Importance from 1 to 10")
}
