package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dmtpagentd",
		Short: "DMTP telematics device agent",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to bootstrap config.yaml (default: /etc/dmtp-agent/config.yaml)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateConfigCmd())
	root.AddCommand(newShowPropertiesCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func setLogLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("unrecognized log level %q, keeping default", level)
		return
	}
	logrus.SetLevel(lvl)
}
