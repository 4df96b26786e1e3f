package config

import (
	"os"
	"reflect"
	"strings"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/logging"
	"github.com/arthur-debert/sdfm/pkg/paths"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "SDFM_"

// envKeys maps the recognised environment suffixes to config keys.
var envKeys = map[string]string{
	"repo":           "repo",
	"target_branch":  "target_branch",
	"remote":         "remote",
	"ssh_key":        "ssh_key",
	"commit_author":  "commit.author",
	"commit_email":   "commit.email",
	"commit_message": "commit.message",
}

// Load reads the configuration from configPath layered over the embedded
// defaults, then SDFM_* environment variables, then overrides. A missing
// config file is not an error.
func Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config.load")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config if it exists
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", configPath).
				WithDetail("path", configPath)
		}
		logger.Debug().Str("path", configPath).Msg("Loaded config file")
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access %s", configPath).
			WithDetail("path", configPath)
	}

	// 3. Environment
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Command-line overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToRepoURLHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		if errors.IsErrorCode(err, errors.ErrConfigInvalid) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to decode configuration")
	}

	cfg.SSHKey = paths.ExpandHome(cfg.SSHKey)

	logger.Debug().
		Bool("initialized", cfg.Initialized()).
		Str("target_branch", cfg.TargetBranch).
		Str("remote", cfg.Remote).
		Msg("Configuration loaded")
	return &cfg, nil
}

// envValue turns SDFM_TARGET_BRANCH into target_branch. Unknown variables,
// such as SDFM_CONFIG_DIR, and empty values are skipped.
func envValue(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return envKeys[strings.ToLower(strings.TrimPrefix(key, EnvPrefix))], value
}

var repoURLType = reflect.TypeOf((*types.RepoURL)(nil)).Elem()

// stringToRepoURLHookFunc decodes the repo string into its URL variant.
func stringToRepoURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != repoURLType {
			return data, nil
		}
		raw := strings.TrimSpace(data.(string))
		if raw == "" {
			return nil, nil
		}
		return types.ParseRepoURL(raw)
	}
}
