package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/bascanada/lambdalogs/pkg/log"
	"github.com/bascanada/lambdalogs/pkg/log/client"
)

const (
	SourceConfig      = "config"
	SourceAWSConfig   = "aws-config"
	SourceCredentials = "aws-credentials"
)

// LoadProfiles returns the explicit profiles of the config followed by the
// ones discovered in the AWS shared files, sorted by name. A profile without
// a region gets the one of its shared config section when available.
func LoadProfiles(ctx context.Context, c *Config) ([]client.Profile, error) {
	seen := map[string]bool{}
	profiles := make([]client.Profile, 0, len(c.Profiles))

	for _, p := range c.Profiles {
		name := strings.TrimSpace(p.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		p.Name = name
		p.Source = SourceConfig
		profiles = append(profiles, p)
	}

	if c.Discover.Value {
		discovered := []client.Profile{}
		for _, f := range c.AWSConfigFiles {
			for _, name := range sectionNames(f, true) {
				if !seen[name] {
					seen[name] = true
					discovered = append(discovered, client.Profile{Name: name, Source: SourceAWSConfig})
				}
			}
		}
		for _, f := range c.AWSCredentialsFiles {
			for _, name := range sectionNames(f, false) {
				if !seen[name] {
					seen[name] = true
					discovered = append(discovered, client.Profile{Name: name, Source: SourceCredentials})
				}
			}
		}
		sort.SliceStable(discovered, func(i, j int) bool { return discovered[i].Name < discovered[j].Name })
		profiles = append(profiles, discovered...)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: add profiles to %s or to %s", ErrNoProfiles, describePath(c.Path), strings.Join(c.AWSConfigFiles, ", "))
	}

	for i := range profiles {
		if profiles[i].Region != "" {
			continue
		}
		profiles[i].Region = sharedRegion(ctx, c, profiles[i].Name)
	}

	log.Debug("loaded %d profiles", len(profiles))

	return profiles, nil
}

// WatchedFiles lists the files whose change should reload the profiles.
func (c *Config) WatchedFiles() []string {
	files := []string{}
	if c.Path != "" {
		files = append(files, c.Path)
	}
	if c.Discover.Value {
		files = append(files, c.AWSConfigFiles...)
		files = append(files, c.AWSCredentialsFiles...)
	}
	return files
}

func sharedRegion(ctx context.Context, c *Config, name string) string {
	shared, err := awsconfig.LoadSharedConfigProfile(ctx, name, func(o *awsconfig.LoadSharedConfigOptions) {
		o.ConfigFiles = existing(c.AWSConfigFiles)
		o.CredentialsFiles = existing(c.AWSCredentialsFiles)
	})
	if err != nil {
		var notExist awsconfig.SharedConfigProfileNotExistError
		if !errors.As(err, &notExist) {
			log.Debug("reading shared config profile=%s: %v", name, err)
		}
		return ""
	}
	return shared.Region
}

// sectionNames reads the profile names declared by an ini file. The shared
// config file prefixes non default sections with "profile ", the
// credentials file does not.
func sectionNames(path string, configFile bool) []string {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("reading %s: %v", path, err)
		}
		return nil
	}
	defer f.Close()

	names := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}
		section := strings.TrimSpace(line[1 : len(line)-1])
		if configFile {
			switch {
			case section == "default":
			case strings.HasPrefix(section, "profile "):
				section = strings.TrimSpace(strings.TrimPrefix(section, "profile "))
			default:
				// sso-session, services and other non profile sections
				continue
			}
		}
		if section != "" {
			names = append(names, section)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("reading %s: %v", path, err)
	}
	return names
}

func existing(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			out = append(out, f)
		}
	}
	return out
}

func describePath(path string) string {
	if path == "" {
		return DefaultPath()
	}
	return path
}
