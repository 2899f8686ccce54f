package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/draylabs/dray/pkg/config"
	"github.com/draylabs/dray/pkg/staging"
	"github.com/draylabs/dray/pkg/types"
)

// TaskResource is the YAML envelope for a task definition file.
type TaskResource struct {
	APIVersion string           `yaml:"apiVersion"`
	Kind       string           `yaml:"kind"`
	Metadata   ResourceMetadata `yaml:"metadata"`
	Spec       TaskSpec         `yaml:"spec"`
}

type ResourceMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

type TaskSpec struct {
	Inputs    map[string]string `yaml:"inputs,omitempty"`
	Outputs   []string          `yaml:"outputs,omitempty"`
	TargetDir string            `yaml:"targetDir,omitempty"`
}

// loadTask reads a task definition file into a types.Task.
func loadTask(filename string) (*types.Task, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %v", err)
	}

	var resource TaskResource
	if err := yaml.Unmarshal(data, &resource); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %v", err)
	}
	if resource.Kind != "Task" {
		return nil, fmt.Errorf("unsupported resource kind: %s", resource.Kind)
	}

	return &types.Task{
		ID:        uuid.New().String(),
		Name:      resource.Metadata.Name,
		Labels:    resource.Metadata.Labels,
		Inputs:    resource.Spec.Inputs,
		Outputs:   resource.Spec.Outputs,
		TargetDir: resource.Spec.TargetDir,
	}, nil
}

// stagingSetup resolves the storage root, cache and session from the
// persistent flags and optional node configuration.
func stagingSetup(cmd *cobra.Command) (storageRoot string, cache *staging.Cache, session types.Session, err error) {
	if cfgPath, _ := cmd.Flags().GetString("config"); cfgPath != "" {
		cfg, cfgErr := config.Load(cfgPath)
		if cfgErr != nil {
			return "", nil, "", cfgErr
		}
		storageRoot, _ = cfg.LocalStorageRoot()
	}

	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "dray-cache")
	}
	cache, err = staging.NewCache(staging.CacheRoot(cacheDir, storageRoot))
	if err != nil {
		return "", nil, "", err
	}

	sess, _ := cmd.Flags().GetString("session")
	if sess == "" {
		session = types.NewSession()
	} else {
		session = types.Session(sess)
	}
	return storageRoot, cache, session, nil
}
