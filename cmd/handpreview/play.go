package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bdougie/handpreview/internal/hand"
	"github.com/bdougie/handpreview/internal/player"
	"github.com/bdougie/handpreview/internal/render"
)

func newPlayCmd() *cobra.Command {
	var cycles int

	cmd := &cobra.Command{
		Use:   "play <artifact-dir>",
		Short: "Play an exported run's skeleton in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			set, err := loadKeypoints(filepath.Join(args[0], "keypoints.json"))
			if err != nil {
				return err
			}
			if len(set.Frames) == 0 {
				return fmt.Errorf("nothing to play: keypoints file has no frames")
			}

			frames := set.Frames
			if cfg.SmoothWindow > 1 {
				frames = hand.Smooth(frames, cfg.SmoothWindow)
			}

			p := player.New()
			p.SetFrames(frames, set.FPS)
			if err := p.Start(); err != nil {
				return err
			}
			defer p.Stop()

			width, height := cfg.Playback.Width, cfg.Playback.Height
			proj := render.TerminalProjection(frames, width, height)

			period := time.Duration(float64(time.Second) / p.Rate())
			total := time.Duration(cycles*len(frames)) * period
			deadline := time.Now().Add(total)

			ticker := time.NewTicker(period)
			defer ticker.Stop()

			for time.Now().Before(deadline) {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
					frame, idx, ok := p.Active()
					if !ok {
						return nil
					}
					// Home the cursor and redraw in place.
					fmt.Print("\x1b[H\x1b[2J")
					fmt.Print(render.RenderTerminal(frame, proj, width, height))
					fmt.Printf("frame %d/%d  %.0f fps\n", idx+1, len(frames), p.Rate())
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cycles, "cycles", 2, "number of full loops to play")
	return cmd
}
