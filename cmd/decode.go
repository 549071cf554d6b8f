package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsphweid/pianov/db"
	"github.com/jsphweid/pianov/keyboard"
	"github.com/jsphweid/pianov/store"
	"github.com/spf13/cobra"
)

var (
	decodeJSON     bool
	decodeMetadata bool
)

func init() {
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "print notes as JSON")
	decodeCmd.Flags().BoolVar(&decodeMetadata, "metadata", false, "look up the song title")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Prints the notes in a file",
	Long:  `Decodes a note stream file and prints every note it closes`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decode(args[0])
	},
}

func decode(path string) error {
	c, err := store.New().LoadFile(path)
	if err != nil {
		return err
	}

	if decodeMetadata {
		printMetadata(path)
	}

	if decodeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c.Notes)
	}

	fmt.Printf("%-6s %-5s %10s %10s\n", "pitch", "name", "start", "duration")
	for _, n := range c.Notes {
		fmt.Printf("%-6d %-5s %10.3f %10.3f\n", n.Pitch, keyboard.PitchName(n.Pitch), n.Start, n.Duration)
	}
	fmt.Printf("%v notes, %.2f quarter notes long\n", len(c.Notes), c.End())
	return nil
}

func printMetadata(path string) {
	m, err := db.Connect(cfg.Metadata)
	if err != nil {
		fmt.Printf("Skipping metadata because: %v\n", err)
		return
	}
	if m == nil {
		fmt.Println("Skipping metadata because no endpoint is configured")
		return
	}

	name := filepath.Base(path)
	metadatas, err := m.GetSongMetadatas([]string{name})
	if err != nil {
		fmt.Printf("Skipping metadata because: %v\n", err)
		return
	}
	if s, ok := metadatas[name]; ok {
		fmt.Printf("%v by %v (%v)\n", s.Title, s.Artist, s.Year)
	}
}
