package main

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/models"
)

func datasetsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Browse and register datasets and their files",
	}

	var modality string
	list := &cobra.Command{
		Use:   "list",
		Short: "List datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			datasets, err := c.ListDatasets(cmd.Context(), models.Modality(modality))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, datasets)
		},
	}
	list.Flags().StringVar(&modality, "modality", "", "Only datasets of this modality (ehr|radiology|histopathology)")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show one dataset",
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
			dataset, err := c.GetDataset(cmd.Context(), id)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, dataset)
		},
	})

	cmd.AddCommand(datasetsCreateCmd(g))

	cmd.AddCommand(&cobra.Command{
		Use:   "files ID",
		Short: "List the files of a dataset",
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
			files, err := c.ListFiles(cmd.Context(), id)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, files)
		},
	})

	cmd.AddCommand(datasetsUploadCmd(g))

	return cmd
}

func datasetsCreateCmd(g *globals) *cobra.Command {
	var (
		req         contract.CreateDatasetRequest
		modality    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Modality = models.Modality(modality)
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}

			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			dataset, err := c.CreateDataset(cmd.Context(), req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, dataset)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Dataset name")
	cmd.Flags().StringVar(&description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&modality, "modality", "", "ehr, radiology or histopathology")
	cmd.Flags().Int64Var(&req.PatientCount, "patients", 0, "Number of patients")
	cmd.Flags().Int64Var(&req.SizeBytes, "size", 0, "Size in bytes")
	cmd.Flags().Uint64Var(&req.OwnerID, "owner", 0, "Owning user ID")

	return cmd
}

func datasetsUploadCmd(g *globals) *cobra.Command {
	var (
		name, fileType string
		size           int64
	)

	cmd := &cobra.Command{
		Use:   "upload ID",
		Short: "Register a file under a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req contract.UploadFileRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("type") {
				req.Type = &fileType
			}
			if cmd.Flags().Changed("size") {
				req.Size = &size
			}

			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			file, err := c.UploadFile(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, file)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "File name")
	cmd.Flags().StringVar(&fileType, "type", "", "File type")
	cmd.Flags().Int64Var(&size, "size", 0, "Size in bytes")

	return cmd
}
