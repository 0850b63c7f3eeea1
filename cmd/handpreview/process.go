package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/bdougie/handpreview/internal/pipeline"
	"github.com/bdougie/handpreview/internal/render"
	"github.com/bdougie/handpreview/internal/session"
)

func newProcessCmd() *cobra.Command {
	var (
		outDir    string
		renderPNG bool
	)

	cmd := &cobra.Command{
		Use:   "process <video>",
		Short: "Upload a video, run the pipeline, and export the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := newBackendClient(cfg, logger)
			if err != nil {
				return err
			}

			sess, err := session.New(logger)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.SelectSource(args[0]); err != nil {
				return err
			}

			runner := pipeline.NewRunner(client, logger,
				pipeline.WithTargetFPS(cfg.TargetFPS),
				pipeline.WithSmoothing(cfg.SmoothWindow),
				pipeline.WithProgress(uploadBar),
			)

			if err := runner.Execute(cmd.Context(), sess); err != nil {
				if msg := sess.Err(); msg != "" {
					return fmt.Errorf("pipeline failed: %s", msg)
				}
				return err
			}

			run := sess.Run()
			fmt.Printf("Run %s ready: %d frames (%d detected, %.0f%% coverage) at %.0f fps\n",
				run.ID, run.Frames, run.DetectedFrames, run.Coverage()*100, run.FPS)
			if run.Note != "" {
				fmt.Println("Note:", run.Note)
			}

			// Compose once so a broken GLB is reported now, not at view
			// time. The pipeline stays ready either way.
			frames := sess.Frames()
			asset, _ := sess.Asset()
			scene := render.NewSupervisor(logger).Compose(render.Input{
				AssetPath: asset.Path(),
				Frame:     frames[0],
				Epsilon:   cfg.Epsilon,
			})
			if scene.Note != "" {
				fmt.Println("Warning:", scene.Note, "(skeleton preview still available)")
			}

			if err := exportArtifacts(sess, outDir); err != nil {
				return err
			}
			fmt.Println("Artifacts written to", outDir)

			if renderPNG {
				paths, err := render.ExportFrames(frames, filepath.Join(outDir, cfg.Render.OutputDir), cfg.Render.Width, cfg.Render.Height)
				if err != nil {
					return err
				}
				fmt.Printf("Rendered %d preview frames\n", len(paths))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "handpreview_out", "directory for exported artifacts")
	cmd.Flags().BoolVar(&renderPNG, "render", false, "also export the skeleton preview as PNG frames")
	return cmd
}

// uploadBar wraps the upload reader with a progress bar.
func uploadBar(r io.Reader, total int64) io.Reader {
	bar := pb.Full.Start64(total)
	bar.Set(pb.Bytes, true)
	return bar.NewProxyReader(r)
}

// exportArtifacts copies the run record, keypoints, and GLB out of the
// session's staging area so they outlive the session.
func exportArtifacts(sess *session.Session, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %v", outDir, err)
	}

	run := sess.Run()
	if err := saveRun(filepath.Join(outDir, "run.json"), run); err != nil {
		return err
	}
	if err := saveKeypoints(filepath.Join(outDir, "keypoints.json"), run.FPS, sess.Frames()); err != nil {
		return err
	}

	asset, ok := sess.Asset()
	if !ok {
		return fmt.Errorf("session has no binary asset")
	}
	data, err := os.ReadFile(asset.Path())
	if err != nil {
		return fmt.Errorf("failed to read binary asset: %v", err)
	}
	glbPath := filepath.Join(outDir, filepath.Base(asset.Path()))
	if err := os.WriteFile(glbPath, data, 0644); err != nil {
		return fmt.Errorf("failed to export binary asset: %v", err)
	}
	return nil
}
