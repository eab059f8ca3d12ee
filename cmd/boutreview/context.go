package main

import (
	"errors"
	"strings"
	"sync"

	"boutreview/internal/config"
	"boutreview/internal/projectstore"
	"boutreview/internal/timeline"
)

type commandContext struct {
	configFlag  *string
	projectFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, projectFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		projectFlag: projectFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// projectDir resolves the project directory: the --project flag wins over
// the configured project_dir.
func (c *commandContext) projectDir() (string, error) {
	if c.projectFlag != nil {
		if dir := strings.TrimSpace(*c.projectFlag); dir != "" {
			return dir, nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if dir := strings.TrimSpace(cfg.Paths.ProjectDir); dir != "" {
		return dir, nil
	}
	return "", errors.New("no project directory: pass --project or set project_dir in the config")
}

func (c *commandContext) loadProject() (*timeline.Project, string, error) {
	dir, err := c.projectDir()
	if err != nil {
		return nil, "", err
	}
	project, err := projectstore.Load(dir)
	if err != nil {
		return nil, "", err
	}
	return project, dir, nil
}
