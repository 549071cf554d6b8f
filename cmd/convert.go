package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jsphweid/pianov/decoder"
	"github.com/jsphweid/pianov/midi"
	"github.com/jsphweid/pianov/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var convertFromJSON bool

func init() {
	convertCmd.Flags().BoolVar(&convertFromJSON, "from-json", false, "input is a JSON list of notes instead of a midi file")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Converts a midi file into a note stream",
	Long: `Converts a Standard MIDI File (or, with --from-json, the output of
"decode --json") into the note stream that decode, play and serve read.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convert(args[0], args[1])
	},
}

func readStream(in string) ([]byte, error) {
	if convertFromJSON {
		dat, err := os.ReadFile(in)
		if err != nil {
			return nil, errors.Wrap(err, "could not read notes")
		}
		var notes model.Notes
		if err := json.Unmarshal(dat, &notes); err != nil {
			return nil, errors.Wrap(err, "could not parse notes")
		}
		return midi.FromNotes(notes), nil
	}

	s, err := midi.ReadMidiFile(in)
	if err != nil {
		return nil, err
	}
	return midi.FromSMF(s)
}

func convert(in, out string) error {
	stream, err := readStream(in)
	if err != nil {
		return err
	}

	// make sure what we write can be played back
	notes, err := decoder.Decode(stream)
	if err != nil {
		return errors.Wrap(err, "converted stream does not decode")
	}

	if err := os.WriteFile(out, stream, 0644); err != nil {
		return errors.Wrap(err, "could not write stream")
	}
	fmt.Printf("Wrote %v notes (%v bytes) to %v\n", len(notes), len(stream), out)
	return nil
}
