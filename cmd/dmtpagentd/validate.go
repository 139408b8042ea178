package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load the bootstrap config and property table, reporting any error",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, boot, err := loadStore()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bootstrap config OK: %d property definitions loaded\n", len(store.Dump()))
			fmt.Fprintf(cmd.OutOrStdout(), "uplink transport: %s\n", boot.UplinkTransport)
			return nil
		},
	}
}
