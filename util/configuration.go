// =================================================================================
//
//			fox-audio - https://www.foxhollow.cc/projects/fox-audio/
//
//		 Fox Audio is a simple CLI utility for recording audio straight to
//	  disk while drawing a live waveform of the take as it is captured
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"playrec/model"
)

const EnvPrefix = "PLAYREC"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("profile_directory", "")
	v.SetDefault("profile", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("output_type", "tui")
	v.SetDefault("permissions.record_audio", true)
	v.SetDefault("permissions.write_storage", true)
	v.SetDefault("simulation_options.enable", false)
	v.SetDefault("simulation_options.frequency", 440.0)
	v.SetDefault("simulation_options.noise", 0.0)
}

// LoadConfig layers defaults, the config file, PLAYREC_* environment
// variables and any flags already bound to v. A missing config file is
// not an error; an unreadable one is.
func LoadConfig(v *viper.Viper, configFile string) (*model.Config, error) {
	setConfigDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		resolved, err := ResolveHomeDirPath(configFile)
		if err != nil {
			return nil, err
		}

		v.SetConfigFile(resolved)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if configDir, err := ConfigDirectory(); err == nil {
			v.AddConfigPath(configDir)
		}

		if binPath, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(binPath))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}

		slog.Debug("no config file found, using defaults")
	} else {
		slog.Info("Read config from " + v.ConfigFileUsed())
	}

	config := &model.Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if _, err := model.ParseOutputType(config.OutputType); err != nil {
		return nil, err
	}

	if _, err := ParseLogLevel(config.LogLevel); err != nil {
		return nil, err
	}

	return config, nil
}

// ParseLogLevel maps the names accepted in config to slog levels. "none"
// parses as error, the caller decides whether to discard logs entirely.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "none", "error":
		return slog.LevelError, nil
	case "warn":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	}

	return slog.LevelInfo, fmt.Errorf("unexpected log level '%s'", name)
}
