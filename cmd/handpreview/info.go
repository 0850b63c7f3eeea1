package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <artifact-dir>",
		Short: "Summarize an exported run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := loadRun(filepath.Join(args[0], "run.json"))
			if err != nil {
				return err
			}
			set, err := loadKeypoints(filepath.Join(args[0], "keypoints.json"))
			if err != nil {
				return err
			}

			fmt.Println("Run:      ", run.ID)
			fmt.Printf("Frames:    %d declared, %d decoded\n", run.Frames, len(set.Frames))
			fmt.Printf("Detected:  %d (%.0f%% coverage)\n", run.DetectedFrames, run.Coverage()*100)
			fmt.Printf("Rate:      %.0f fps\n", run.FPS)
			if set.InputFPS > 0 {
				fmt.Printf("Input:     %.0f fps\n", set.InputFPS)
			}
			if run.Note != "" {
				fmt.Println("Note:     ", run.Note)
			}
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
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
			if err := client.Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Backend at", cfg.Server, "is healthy")
			return nil
		},
	}
}
