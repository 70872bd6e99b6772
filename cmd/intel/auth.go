package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/cli"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/source"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with bank data providers",
	}
	cmd.AddCommand(authSimpleFINCmd())
	return cmd
}

func authSimpleFINCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simplefin <setup-token>",
		Short: "Exchange a SimpleFIN setup token for an access URL",
		Long: `Claim a SimpleFIN Bridge setup token. A setup token can be claimed only
once; store the printed access URL as simplefin.access_url in the config
file or the INTEL_SIMPLEFIN_ACCESS_URL environment variable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accessURL, err := source.ClaimSimpleFINToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("SimpleFIN token claimed"))
			fmt.Fprintln(cmd.OutOrStdout(), accessURL)
			return nil
		},
	}
}
