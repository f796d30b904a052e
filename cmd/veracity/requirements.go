package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/veracitylab/veracity/internal/requirements"
)

func requirementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requirements",
		Aliases: []string{"req"},
		Short:   "Manage the requirement store",
	}

	cmd.AddCommand(requirementsListCmd())
	cmd.AddCommand(requirementsAddCmd())
	cmd.AddCommand(requirementsDeleteCmd())
	cmd.AddCommand(requirementsStatsCmd())

	return cmd
}

// loadStore opens the configured store file. A missing file yields an
// empty store so first use needs no setup step.
func loadStore(path string) (*requirements.Store, error) {
	store := requirements.NewStore(newLogger())
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return store, nil
	}
	if err := store.LoadFile(path); err != nil {
		return nil, fmt.Errorf("load store %s: %w", path, err)
	}
	return store, nil
}

func requirementsListCmd() *cobra.Command {
	var (
		category string
		reqType  string
		priority string
		source   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored requirements",
		Long: `List requirements, optionally narrowed by category, type, priority,
or source section. Filters are intersected.

Examples:
  veracity requirements list
  veracity requirements list --category security --priority critical
  veracity requirements list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := loadStore(cfg.Store.Path)
			if err != nil {
				return err
			}

			reqs := store.Filter(requirements.FilterOptions{
				Category: category,
				Type:     requirements.Type(reqType),
				Priority: requirements.Priority(priority),
				Source:   source,
			})

			if asJSON {
				data, err := json.MarshalIndent(reqs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tPRIORITY\tCATEGORY\tDESCRIPTION")
			for _, r := range reqs {
				desc := r.Description
				if len(desc) > 60 {
					desc = desc[:57] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Type, r.Priority, r.Category, desc)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&reqType, "type", "", "Filter by type: mandatory, recommended, prohibited")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority: critical, high, medium, low")
	cmd.Flags().StringVar(&source, "source", "", "Filter by source document section")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func requirementsAddCmd() *cobra.Command {
	var req requirements.Requirement
	var keywords []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a requirement to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := loadStore(cfg.Store.Path)
			if err != nil {
				return err
			}

			req.Keywords = keywords
			if req.ConfidenceScore == 0 {
				req.ConfidenceScore = 1.0
			}
			if err := store.Add(req); err != nil {
				return fmt.Errorf("add requirement: %w", err)
			}
			if err := store.SaveFile(cfg.Store.Path); err != nil {
				return fmt.Errorf("save store: %w", err)
			}

			fmt.Printf("Added %s (%d requirements total)\n", req.ID, store.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.ID, "id", "", "Requirement ID")
	cmd.Flags().StringVar(&req.Description, "description", "", "Requirement description")
	cmd.Flags().StringVar((*string)(&req.Type), "type", "mandatory", "Type: mandatory, recommended, prohibited")
	cmd.Flags().StringVar((*string)(&req.Priority), "priority", "medium", "Priority: critical, high, medium, low")
	cmd.Flags().StringVar(&req.Category, "category", "general", "Category")
	cmd.Flags().StringVar(&req.Subcategory, "subcategory", "", "Subcategory")
	cmd.Flags().StringVar(&req.Source.DocumentSection, "section", "cli", "Source document section")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "Matching keywords")

	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("description")

	return cmd
}

func requirementsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a requirement from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := loadStore(cfg.Store.Path)
			if err != nil {
				return err
			}

			if err := store.Delete(args[0]); err != nil {
				return fmt.Errorf("delete requirement: %w", err)
			}
			if err := store.SaveFile(cfg.Store.Path); err != nil {
				return fmt.Errorf("save store: %w", err)
			}

			fmt.Printf("Deleted %s (%d requirements remain)\n", args[0], store.Len())
			return nil
		},
	}
}

func requirementsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := loadStore(cfg.Store.Path)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(store.Stats(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
