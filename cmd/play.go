package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/pianov/clock"
	"github.com/jsphweid/pianov/keyboard"
	"github.com/jsphweid/pianov/store"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const watchPollInterval = 250 * time.Millisecond
const reloadDebounce = 500 * time.Millisecond

var (
	playStep     float64
	playInterval time.Duration
	playWatch    bool
)

func init() {
	playCmd.Flags().Float64Var(&playStep, "step", 0, "quarter notes per tick (default from config)")
	playCmd.Flags().DurationVar(&playInterval, "interval", 0, "time between ticks (default from config)")
	playCmd.Flags().BoolVar(&playWatch, "watch", false, "reload the file when it changes")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Plays a file on a terminal keyboard",
	Long:  `Plays a file on a terminal keyboard, one line per tick, until the song ends or ctrl-c`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return play(ctx, args[0])
	},
}

func play(ctx context.Context, path string) error {
	st := store.New()
	if _, err := st.LoadFile(path); err != nil {
		return err
	}

	step, interval := cfg.Clock.Step, cfg.Clock.Interval
	if playStep > 0 {
		step = playStep
	}
	if playInterval > 0 {
		interval = playInterval
	}

	l := layout()
	finished := make(chan struct{}, 1)
	clk := clock.New(step, interval)
	clk.OnTick = func(now float64) {
		c := st.Current()
		keys := l.KeysFor(c.PitchesAt(now))
		fmt.Printf("%8.2f %s %s\n", now, keyboard.Render(keys), keyboard.Names(keys))
		if now >= c.End() {
			select {
			case finished <- struct{}{}:
			default:
			}
		}
	}

	if playWatch {
		go watch(ctx, path, st)
	}

	clk.Start(ctx)
	defer clk.Stop()

	select {
	case <-ctx.Done():
	case <-finished:
	}
	return nil
}

// watch reloads path whenever its modification time moves. A burst of writes
// is collapsed into one reload.
func watch(ctx context.Context, path string, st *store.Store) {
	logger := log.WithFields(log.Fields{
		"function": "watch",
		"path":     path,
	})
	debounced := debounce.New(reloadDebounce)

	var lastMod time.Time
	if info, err := os.Stat(path); err == nil {
		lastMod = info.ModTime()
	}

	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				logger.Debug(err.Error())
				continue
			}
			if !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()
			debounced(func() {
				// a bad write leaves the previous notes playing
				if _, err := st.LoadFile(path); err != nil {
					logger.Warn(err.Error())
				}
			})
		}
	}
}
