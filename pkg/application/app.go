// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fitcron/cli/pkg/config"
	"github.com/fitcron/cli/pkg/constants"
	"github.com/fitcron/cli/pkg/models"
	"go.uber.org/zap"
)

// Fitcron carries everything a command needs. The base directory is
// explicit; no command and no helper ever changes the process working
// directory, all relative paths of the pipeline resolve through the
// getters below.
type Fitcron struct {
	Log     *zap.Logger
	baseDir string
	Conf    *config.Config
}

func New() *Fitcron {
	return &Fitcron{}
}

func (app *Fitcron) Setup(baseDir string, log *zap.Logger, conf *config.Config) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
}

func (app *Fitcron) GetBaseDir() string {
	return app.baseDir
}

func (app *Fitcron) GetSessionPath() string {
	return filepath.Join(app.baseDir, constants.SessionFileName)
}

func (app *Fitcron) GetPruneConfigPath() string {
	return filepath.Join(app.baseDir, filepath.FromSlash(constants.PruneConfigPath))
}

// GetCollectorDefaultPath is where the collector lands when built in place.
// Overrides (flag, env, config file) are resolved by the collector package.
func (app *Fitcron) GetCollectorDefaultPath() string {
	return filepath.Join(app.baseDir, filepath.FromSlash(constants.CollectorDefaultPath))
}

func (app *Fitcron) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *Fitcron) GetLogPath() string {
	return filepath.Join(app.GetLogDir(), constants.LogFileName)
}

func (app *Fitcron) GetRunFilePath() string {
	return filepath.Join(app.baseDir, constants.RunFileName)
}

// LoadSession reads the collector's session dotfile. Absence surfaces as
// the raw os error so callers can treat it as the expected no-op case;
// anything present but untrustworthy wraps constants.ErrInvalidSession.
func (app *Fitcron) LoadSession() (models.Session, error) {
	sessionPath := app.GetSessionPath()
	jsonBytes, err := os.ReadFile(sessionPath)
	if err != nil {
		return models.Session{}, err
	}

	// The collector stores OAuth tokens next to the expiry. Probe for the
	// one field that matters and insist it is actually there.
	var probe struct {
		ExpiresAt *int64 `json:"expires_at"`
	}
	if err := json.Unmarshal(jsonBytes, &probe); err != nil {
		return models.Session{}, fmt.Errorf("%w: %s: %v", constants.ErrInvalidSession, sessionPath, err)
	}
	if probe.ExpiresAt == nil {
		return models.Session{}, fmt.Errorf("%w: %s: expires_at missing", constants.ErrInvalidSession, sessionPath)
	}

	return models.Session{ExpiresAt: *probe.ExpiresAt}, nil
}

// LoadPruneConfig reads the uploader's config and validates the slice the
// pruner depends on. A relative data directory resolves against the base
// directory before the config is handed out.
func (app *Fitcron) LoadPruneConfig() (models.PruneConfig, error) {
	configPath := app.GetPruneConfigPath()
	jsonBytes, err := os.ReadFile(configPath)
	if err != nil {
		return models.PruneConfig{}, err
	}

	var cfg models.PruneConfig
	if err := json.Unmarshal(jsonBytes, &cfg); err != nil {
		return models.PruneConfig{}, fmt.Errorf("%w: %s: %v", constants.ErrInvalidConfig, configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return models.PruneConfig{}, fmt.Errorf("%s: %w", configPath, err)
	}

	if !filepath.IsAbs(cfg.FileBasePath) {
		cfg.FileBasePath = filepath.Join(app.baseDir, cfg.FileBasePath)
	}

	return cfg, nil
}
