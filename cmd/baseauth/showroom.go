package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/base-angewandte/baseauth/pkg/showroom"
)

func newShowroomCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "showroom",
		Short: "Synchronise user data with Showroom",
	}

	var dataPath string
	pushCmd := &cobra.Command{
		Use:   "push <username>",
		Short: "Push a user's profile attributes to Showroom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(dataPath)
			if err != nil {
				return fmt.Errorf("read data: %w", err)
			}
			var attrs map[string]any
			if err := json.Unmarshal(raw, &attrs); err != nil {
				return fmt.Errorf("parse data: %w", err)
			}

			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			id, err := showroom.New(cfg.Showroom, nil, log).PushUser(cmd.Context(), args[0], attrs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %s: showroom id %s\n", args[0], id)
			return nil
		},
	}
	pushCmd.Flags().StringVar(&dataPath, "data", "", "JSON file with the user's attributes")
	_ = pushCmd.MarkFlagRequired("data")

	cmd.AddCommand(pushCmd)
	return cmd
}
