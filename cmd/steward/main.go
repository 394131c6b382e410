package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "steward",
	Short: "Steward — Content Admin Dashboard",
	Long:  "Steward is the admin dashboard backend for a content site: posts, banners, brokers, products, and affiliates, with invited-user onboarding, audit logging, and role-based access.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/steward.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
