package config

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

// Save records the repository and target branch in configPath. Other keys
// already present in the file are kept.
func Save(configPath string, repo types.RepoURL, targetBranch string) error {
	doc := map[string]interface{}{}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(err, errors.ErrConfigInvalid, "existing config %s is not valid TOML", configPath).
				WithDetail("path", configPath)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrConfigWrite, "cannot read %s", configPath).
			WithDetail("path", configPath)
	}

	doc["repo"] = repo.String()
	doc["target_branch"] = targetBranch

	out, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigWrite, "failed to encode configuration")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(configPath))
	}
	if err := os.WriteFile(configPath, out, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWrite, "failed to write %s", configPath).
			WithDetail("path", configPath)
	}
	return nil
}
