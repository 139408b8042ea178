package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowPropertiesCmd() *cobra.Command {
	var changedOnly bool
	cmd := &cobra.Command{
		Use:   "show-properties",
		Short: "Print the current property table",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := loadStore()
			if err != nil {
				return err
			}
			changed := map[string]bool{}
			if changedOnly {
				for _, k := range store.Changed() {
					if def, ok := store.Definition(k); ok {
						changed[def.Name] = true
					}
				}
			}
			for _, e := range store.Dump() {
				if changedOnly && !changed[e.Name] {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", e.Name, e.Value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&changedOnly, "changed", false, "only print entries carrying CHANGED")
	return cmd
}
