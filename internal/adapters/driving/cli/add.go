package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var addDocID string

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Chunk, embed and index a document",
	Long: `Reads a file (or stdin when the argument is "-"), splits it into
overlapping token windows, embeds each window and indexes the vectors.

The document id defaults to the file name; pass --id to override it,
which is required when reading from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addDocID, "id", "", "document id (default: file name)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	path := args[0]

	var content []byte
	var err error
	docID := addDocID

	if path == "-" {
		if docID == "" {
			return fmt.Errorf("--id is required when reading from stdin")
		}
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		if docID == "" {
			docID = filepath.Base(path)
		}
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	added, err := ingestService.AddDocument(cmd.Context(), docID, string(content))
	if err != nil {
		return fmt.Errorf("adding document: %w", err)
	}

	cmd.Printf("Indexed %d chunks from %s\n", added, docID)
	return nil
}
