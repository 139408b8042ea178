package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ositech/dmtp-agent/internal/agent"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the agent until terminated",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, boot, err := loadStore()
			if err != nil {
				return err
			}
			a, err := agent.New(store, agent.Config{
				UplinkTransport: boot.UplinkTransport,
				IndicatorPin:    boot.IndicatorPin,
			})
			if err != nil {
				return err
			}
			return a.Run(context.Background())
		},
	}
}
