package main

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/dto"
	"github.com/yukikurage/clinical-data-api/internal/models"
)

func usersCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			users, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, users)
		},
	})

	cmd.AddCommand(usersCreateCmd(g))
	cmd.AddCommand(usersUpdateCmd(g))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user",
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
			if err := c.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, dto.MessageResponse{Message: "User deleted"})
		},
	})

	return cmd
}

func usersCreateCmd(g *globals) *cobra.Command {
	var (
		req      contract.CreateUserRequest
		role     string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = models.Role(role)
			if inactive {
				active := false
				req.IsActive = &active
			}

			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			user, err := c.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, user)
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&role, "role", string(models.RoleResearcher), "admin or researcher")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "Display name")
	cmd.Flags().StringVar(&req.Institution, "institution", "", "Affiliated institution")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Create the account disabled")

	return cmd
}

func usersUpdateCmd(g *globals) *cobra.Command {
	var (
		username, password, role, fullName, institution string
		active                                          bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of a user; only the flags given are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req contract.UpdateUserRequest
			flags := cmd.Flags()
			if flags.Changed("username") {
				req.Username = &username
			}
			if flags.Changed("password") {
				req.Password = &password
			}
			if flags.Changed("role") {
				r := models.Role(role)
				req.Role = &r
			}
			if flags.Changed("full-name") {
				req.FullName = &fullName
			}
			if flags.Changed("institution") {
				req.Institution = &institution
			}
			if flags.Changed("active") {
				req.IsActive = &active
			}

			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			user, err := c.UpdateUser(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, user)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "New login name")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	cmd.Flags().StringVar(&role, "role", "", "admin or researcher")
	cmd.Flags().StringVar(&fullName, "full-name", "", "New display name")
	cmd.Flags().StringVar(&institution, "institution", "", "New institution")
	cmd.Flags().BoolVar(&active, "active", true, "Enable or disable the account")

	return cmd
}

func parseID(arg string) (uint64, error) {
	return strconv.ParseUint(arg, 10, 64)
}
