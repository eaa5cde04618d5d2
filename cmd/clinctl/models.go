package main

import (
	"github.com/spf13/cobra"
)

func modelsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List and run analysis models",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			list, err := c.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, list)
		},
	})

	var datasetID uint64
	run := &cobra.Command{
		Use:   "run ID",
		Short: "Queue a model run against a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			result, err := c.RunModel(cmd.Context(), id, datasetID)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, result)
		},
	}
	run.Flags().Uint64Var(&datasetID, "dataset", 0, "Dataset to run on")
	_ = run.MarkFlagRequired("dataset")
	cmd.AddCommand(run)

	return cmd
}

func auditCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			logs, err := c.ListAuditLogs(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, logs)
		},
	}
}
