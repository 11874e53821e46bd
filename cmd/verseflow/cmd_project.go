package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/verseflow/internal/export"
	"github.com/user/verseflow/internal/project"
	"github.com/user/verseflow/internal/types"
)

var exportFormat string
var exportOut string

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd, projectExportCmd)
	projectExportCmd.Flags().StringVar(&exportFormat, "format", "md", "export format (md, json, yaml)")
	projectExportCmd.Flags().StringVar(&exportOut, "out", "", "output file (defaults to <name>.<ext> in the current directory)")
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Inspect and export saved projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		projects, err := project.NewStore(cfg.ProjectsDir).List()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Fprintln(os.Stdout, "no projects")
			return nil
		}
		for _, p := range projects {
			fmt.Fprintf(os.Stdout, "%s  %-30s  %d sections  updated %s\n",
				p.ID, p.Name, len(p.Sections), p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var projectExportCmd = &cobra.Command{
	Use:   "export <project-id>",
	Short: "Export a project as a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		p, err := project.NewStore(cfg.ProjectsDir).Load(types.ProjectID(args[0]))
		if err != nil {
			return err
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = p.Name + "." + exporter.Extension()
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()

		if err := exporter.Export(p, f); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "exported %s to %s\n", p.Name, out)
		return nil
	},
}
