package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/base-angewandte/baseauth/pkg/i18n"
	"github.com/base-angewandte/baseauth/pkg/labels"
	"github.com/base-angewandte/baseauth/pkg/models"
)

func newLookupCmd(configPath *string) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "lookup <field> [query]",
		Short: "Print the suggestions of an autosuggest field as JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := i18n.WithLanguage(cmd.Context(), lang)
			var records []models.ConceptRecord
			if len(args) == 2 {
				records, err = a.lookup.Search(ctx, args[0], args[1])
			} else {
				records, err = a.lookup.All(ctx, args[0])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", i18n.DefaultLanguage, "active language")
	return cmd
}

func newLabelCmd(configPath *string) *cobra.Command {
	var kind, lang string

	cmd := &cobra.Command{
		Use:   "label <concept>",
		Short: "Resolve the label of a vocabulary concept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := labels.ParseKind(kind)
			if err != nil {
				return err
			}
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			label := a.labels.Ref(k, args[0], labels.Vocabulary{}, lang).Resolve(cmd.Context())
			if label == "" {
				return fmt.Errorf("no %s label for %q", k, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), label)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "pref", "label kind: pref, alt or collection")
	cmd.Flags().StringVar(&lang, "lang", i18n.DefaultLanguage, "label language")
	return cmd
}
