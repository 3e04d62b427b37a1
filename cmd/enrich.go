package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/connoction/outreach-cli/internal/model"
)

var (
	enrichFile    string
	enrichURL     string
	enrichAsk     string
	enrichPreset  string
	enrichChannel string
	enrichSave    bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run enrichment for a single profile",
	Long:  "Reads an enrichment request from a JSON file (the extension payload shape) or builds one from flags, runs the pipeline once, and prints the result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var req model.EnrichmentRequest
		if enrichFile != "" {
			data, err := os.ReadFile(enrichFile)
			if err != nil {
				return eris.Wrap(err, "enrich: read request file")
			}
			if err := json.Unmarshal(data, &req); err != nil {
				return eris.Wrap(err, "enrich: parse request file")
			}
		}
		if enrichURL != "" {
			req.Profile.LinkedInURL = enrichURL
		}
		if enrichAsk != "" {
			req.Ask = enrichAsk
		}
		if enrichPreset != "" {
			ask := env.Templates.Ask(enrichPreset)
			if ask == "" {
				return eris.Errorf("enrich: unknown ask preset %q", enrichPreset)
			}
			req.Ask = ask
		}
		if enrichChannel != "" {
			req.Options.Channel = model.Channel(enrichChannel)
		}
		if enrichSave {
			req.Options.SaveToStore = true
		}

		if req.Profile.LinkedInURL == "" && req.Profile.Name == "" {
			return eris.New("enrich: request needs at least a profile URL or name (--file or --url)")
		}

		result, err := env.Pipeline.Run(ctx, req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichFile, "file", "", "path to a request JSON file")
	enrichCmd.Flags().StringVar(&enrichURL, "url", "", "profile URL (overrides file)")
	enrichCmd.Flags().StringVar(&enrichAsk, "ask", "", "outreach ask (overrides file)")
	enrichCmd.Flags().StringVar(&enrichPreset, "ask-preset", "", "named ask preset from the templates file")
	enrichCmd.Flags().StringVar(&enrichChannel, "channel", "", "draft channel: linkedin or email")
	enrichCmd.Flags().BoolVar(&enrichSave, "save", false, "save the generated draft to the record store")
	rootCmd.AddCommand(enrichCmd)
}
