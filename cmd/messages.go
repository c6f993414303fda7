package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/db"
)

var (
	messagesFormat string
	messagesLimit  int
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List archived contact form messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, closeDB, err := openArchive()
		if err != nil {
			return err
		}
		defer closeDB()

		msgs, err := archive.List(cmd.Context(), messagesLimit)
		if err != nil {
			return err
		}
		return writeMessages(cmd.OutOrStdout(), messagesFormat, msgs)
	},
}

var messagesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, closeDB, err := openArchive()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := archive.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func openArchive() (*contact.Archive, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return contact.NewArchive(database), func() { database.Close() }, nil
}

func writeMessages(w io.Writer, format string, msgs []contact.ArchivedMessage) error {
	if msgs == nil {
		msgs = []contact.ArchivedMessage{}
	}
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(msgs); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(msgs)
	default:
		return fmt.Errorf("unknown format %q: must be yaml or json", format)
	}
}

func init() {
	messagesCmd.Flags().StringVarP(&messagesFormat, "format", "f", "yaml", "output format (yaml, json)")
	messagesCmd.Flags().IntVarP(&messagesLimit, "limit", "n", 50, "maximum number of messages")
	messagesCmd.AddCommand(messagesDeleteCmd)
	rootCmd.AddCommand(messagesCmd)
}
