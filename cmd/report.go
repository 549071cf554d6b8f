package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/pianov/constants"
	"github.com/jsphweid/pianov/db"
	"github.com/jsphweid/pianov/decoder"
	"github.com/jsphweid/pianov/keyboard"
	"github.com/jsphweid/pianov/model"
	"github.com/jsphweid/pianov/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var reportMax int

func init() {
	reportCmd.Flags().IntVar(&reportMax, "max", 0, "only look at the first n files")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Creates a report",
	Long:  `Decodes every file in a directory (the media dir by default) and reports what it found`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.MediaDir
		if len(args) == 1 {
			dir = args[0]
		}
		return report(dir)
	},
}

type fileReport struct {
	path     string
	numNotes int
	length   float64
	low      uint8
	high     uint8
	pitches  map[uint8]int
}

type filesReport struct {
	files     []fileReport
	truncated []string
	empty     []string
	unread    []string
	// notes per pitch over every decoded file
	pitches map[uint8]int
}

func analyzeFile(path string) (fileReport, error) {
	r := fileReport{path: path, pitches: make(map[uint8]int)}
	dat, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	notes, err := decoder.Decode(dat)
	if err != nil {
		return r, err
	}

	r.numNotes = len(notes)
	r.low, r.high = notes[0].Pitch, notes[0].Pitch
	for _, n := range notes {
		r.length = util.Max(r.length, n.End())
		r.low = util.Min(r.low, n.Pitch)
		r.high = util.Max(r.high, n.Pitch)
		r.pitches[n.Pitch]++
	}
	return r, nil
}

func analyzeFiles(paths []string) filesReport {
	report := filesReport{pitches: make(map[uint8]int)}
	for i, path := range paths {
		fmt.Printf("Processing %v of %v files\n", i+1, len(paths))
		r, err := analyzeFile(path)
		switch {
		case err == nil:
			report.files = append(report.files, r)
			for p, n := range r.pitches {
				report.pitches[p] += n
			}
		case errors.Is(err, decoder.ErrUnexpectedEndOfStream):
			report.truncated = append(report.truncated, path)
		case errors.Is(err, decoder.ErrNoNotesFound):
			report.empty = append(report.empty, path)
		default:
			fmt.Printf("Skipping %v because: %v\n", path, err)
			report.unread = append(report.unread, path)
		}
	}
	return report
}

func lookupTitles(files []fileReport) map[string]model.SongMetadata {
	res := make(map[string]model.SongMetadata)
	m, err := db.Connect(cfg.Metadata)
	if err != nil || m == nil {
		return res
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.path))
	}
	for start := 0; start < len(names); start += constants.MaxMetadataBatch {
		end := util.Min(start+constants.MaxMetadataBatch, len(names))
		metadatas, err := m.GetSongMetadatas(names[start:end])
		if err != nil {
			fmt.Printf("Skipping metadata because: %v\n", err)
			return res
		}
		for k, v := range metadatas {
			res[k] = v
		}
	}
	return res
}

// formatPitches lists note counts from the lowest pitch up, e.g. "C4:3 E4:1".
func formatPitches(pitches map[uint8]int) string {
	var parts []string
	for _, p := range util.GetKeys(pitches) {
		parts = append(parts, fmt.Sprintf("%v:%v", keyboard.PitchName(p), pitches[p]))
	}
	return strings.Join(parts, " ")
}

func report(dir string) error {
	paths, err := util.GatherAllMidiPaths(dir, reportMax)
	if err != nil {
		return err
	}

	summary := analyzeFiles(paths)
	titles := lookupTitles(summary.files)

	var numNotes []int
	var lengths []float64
	for _, f := range summary.files {
		numNotes = append(numNotes, f.numNotes)
		lengths = append(lengths, f.length)
		title := filepath.Base(f.path)
		if s, ok := titles[title]; ok {
			title = fmt.Sprintf("%v - %v", s.Artist, s.Title)
		}
		fmt.Printf("%v: %v notes, %.2f quarter notes, %v..%v\n", title, f.numNotes, f.length, f.low, f.high)
	}

	fmt.Printf("files: %v\n", len(paths))
	fmt.Printf("decoded: %v\n", len(summary.files))
	fmt.Printf("truncated: %v %v\n", len(summary.truncated), summary.truncated)
	fmt.Printf("no notes: %v %v\n", len(summary.empty), summary.empty)
	fmt.Printf("unreadable: %v\n", len(summary.unread))
	fmt.Printf("total notes: %v\n", util.Sum(numNotes))
	fmt.Printf("total length: %.2f quarter notes\n", util.Sum(lengths))
	fmt.Printf("pitches: %v\n", formatPitches(summary.pitches))
	return nil
}
