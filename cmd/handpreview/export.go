package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bdougie/handpreview/internal/hand"
)

// saveRun writes the run record as JSON.
func saveRun(path string, run *hand.Run) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create run file: %v", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(run); err != nil {
		return fmt.Errorf("failed to encode run: %v", err)
	}
	return nil
}

// loadRun reads a run record exported by saveRun.
func loadRun(path string) (*hand.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %v", err)
	}
	var run hand.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %v", err)
	}
	return &run, nil
}

// saveKeypoints writes the decoded frame sequence in the backend's
// keypoint wire format, so it can be re-played without the server.
func saveKeypoints(path string, fps float64, frames []hand.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create keypoints file: %v", err)
	}
	defer file.Close()

	set := hand.KeypointSet{FPS: fps, Frames: frames}
	if err := json.NewEncoder(file).Encode(&set); err != nil {
		return fmt.Errorf("failed to encode keypoints: %v", err)
	}
	return nil
}

// loadKeypoints reads a keypoints file exported by saveKeypoints.
func loadKeypoints(path string) (*hand.KeypointSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypoints file: %v", err)
	}
	var set hand.KeypointSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to decode keypoints: %v", err)
	}
	return &set, nil
}
