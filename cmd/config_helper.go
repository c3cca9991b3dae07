package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bascanada/lambdalogs/pkg/log"
	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/client/config"
	"github.com/bascanada/lambdalogs/pkg/log/factory"
)

// loadConfig reads the configuration and adds a tip to the known failures.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, withTip(err)
	}
	if cfg.Path != "" {
		log.Debug("using config file %s", cfg.Path)
	}
	return cfg, nil
}

// loadProfiles returns the profiles of cfg, failing when there is none.
func loadProfiles(ctx context.Context, cfg *config.Config) ([]client.Profile, error) {
	profiles, err := config.LoadProfiles(ctx, cfg)
	if err != nil {
		return nil, withTip(err)
	}
	return profiles, nil
}

func withTip(err error) error {
	var tip string
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		tip = "run 'lambdalogs configure' to create it, or omit --config to use your AWS profiles"
	case errors.Is(err, config.ErrConfigParse):
		tip = "check the file syntax, 'lambdalogs init' writes an example"
	case errors.Is(err, config.ErrNoProfiles):
		tip = "run 'aws configure' or add profiles with 'lambdalogs configure'"
	default:
		return err
	}
	return fmt.Errorf("%w\nTip: %s", err, tip)
}

// resolveProfile finds name among the loaded profiles. An unknown name is
// still usable since the SDK may know it from another source.
func resolveProfile(profiles []client.Profile, name, regionOverride string) client.Profile {
	profile := client.Profile{Name: name}
	found := false
	for _, p := range profiles {
		if p.Name == name {
			profile, found = p, true
			break
		}
	}
	if !found {
		known := make([]string, 0, len(profiles))
		for _, p := range profiles {
			known = append(known, p.Name)
		}
		log.Warn("profile %s not found in %s", name, strings.Join(known, ", "))
	}
	if regionOverride != "" {
		profile.Region = regionOverride
	}
	return profile
}

// getClient builds the CloudWatch client of the selected profile.
func getClient(ctx context.Context, cfg *config.Config) (client.LogClient, client.Profile, error) {
	profiles, err := loadProfiles(ctx, cfg)
	if err != nil && !errors.Is(err, config.ErrNoProfiles) {
		return nil, client.Profile{}, err
	}
	profile := resolveProfile(profiles, profileName, region)

	c, err := factory.GetLogClientFactory(cfg).Get(ctx, profile)
	if err != nil {
		return nil, profile, err
	}
	return c, profile, nil
}
