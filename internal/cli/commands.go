package cli

import (
	"errors"
	"fmt"

	"github.com/bissquit/incident-tracker/internal/client"
	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/pkg/nullable"
	"github.com/spf13/cobra"
)

func newListCommand(opts *options) *cobra.Command {
	var (
		params client.ListParams
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List incidents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := opts.client().ListIncidents(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("list incidents: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			if err := RenderTable(out, result.Data); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "Page %d of %d (%d incidents)\n", result.Page, result.Pages, result.Total)
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&params.Page, "page", 1, "page number")
	f.IntVar(&params.Limit, "limit", 10, "incidents per page")
	f.StringVar(&params.Search, "search", "", "substring of title or service")
	f.StringVar(&params.Severity, "severity", "", "filter by severity")
	f.StringVar(&params.Status, "status", "", "filter by status")
	f.StringVar(&params.SortBy, "sort-by", "createdAt", "createdAt, severity or title")
	f.StringVar(&params.Order, "order", "desc", "asc or desc")
	f.BoolVar(&asJSON, "json", false, "print the raw JSON response")

	return cmd
}

func newGetCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one incident",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incident, err := opts.client().GetIncident(cmd.Context(), args[0])
			if client.IsNotFound(err) {
				return fmt.Errorf("incident %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("get incident: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), incident)
			}
			return RenderIncident(cmd.OutOrStdout(), incident)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")
	return cmd
}

func newCreateCommand(opts *options) *cobra.Command {
	var (
		params         client.CreateParams
		owner, summary string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an incident",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Empty optional fields are sent as absent so the server stores null.
			if owner != "" {
				params.Owner = &owner
			}
			if summary != "" {
				params.Summary = &summary
			}

			incident, err := opts.client().CreateIncident(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("create incident: %w", err)
			}
			return RenderIncident(cmd.OutOrStdout(), incident)
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.Title, "title", "", "incident title (required)")
	f.StringVar(&params.Service, "service", "", "affected service (required)")
	f.StringVar(&params.Severity, "severity", string(domain.SeveritySEV1), "SEV1, SEV2, SEV3 or SEV4")
	f.StringVar(&params.Status, "status", string(domain.StatusOpen), "OPEN, MITIGATED or RESOLVED")
	f.StringVar(&owner, "owner", "", "owner name")
	f.StringVar(&summary, "summary", "", "free-form summary")

	return cmd
}

func newUpdateCommand(opts *options) *cobra.Command {
	var (
		status, owner, summary   string
		clearOwner, clearSummary bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change status, owner or summary of an incident",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()

			params := client.UpdateParams{
				Status:  flagValue(f.Changed("status"), status, false),
				Owner:   flagValue(f.Changed("owner"), owner, clearOwner),
				Summary: flagValue(f.Changed("summary"), summary, clearSummary),
			}
			if !params.Status.Set && !params.Owner.Set && !params.Summary.Set {
				return errors.New("nothing to update: set --status, --owner or --summary")
			}

			incident, err := opts.client().UpdateIncident(cmd.Context(), args[0], params)
			if client.IsNotFound(err) {
				return fmt.Errorf("incident %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("update incident: %w", err)
			}
			return RenderIncident(cmd.OutOrStdout(), incident)
		},
	}

	f := cmd.Flags()
	f.StringVar(&status, "status", "", "OPEN, MITIGATED or RESOLVED")
	f.StringVar(&owner, "owner", "", "new owner")
	f.StringVar(&summary, "summary", "", "new summary")
	f.BoolVar(&clearOwner, "clear-owner", false, "remove the owner")
	f.BoolVar(&clearSummary, "clear-summary", false, "remove the summary")
	cmd.MarkFlagsMutuallyExclusive("owner", "clear-owner")
	cmd.MarkFlagsMutuallyExclusive("summary", "clear-summary")

	return cmd
}

func newHealthCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := opts.client().Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), status)
			return err
		},
	}
}

func flagValue(changed bool, value string, unset bool) nullable.String {
	switch {
	case unset:
		return nullable.Null()
	case changed:
		return nullable.NewString(value)
	default:
		return nullable.String{}
	}
}
