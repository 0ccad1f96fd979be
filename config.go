package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	keyDir       = "dir"
	keyRecursive = "recursive"
	keySuffix    = "suffix"
	keyTag       = "tag"
	keyDryRun    = "dry_run"
	keyVerbose   = "verbose"

	flagDryRun = "dry-run"
)

const configName = ".ctorgen"

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault(keyDir, cwd)
	v.SetDefault(keyRecursive, false)
	v.SetDefault(keySuffix, defaultSuffix)
	v.SetDefault(keyTag, defaultTagKey)
	v.SetDefault(keyDryRun, false)
	v.SetDefault(keyVerbose, false)
}

// loadConfig merges defaults, an optional .ctorgen.{yaml,toml,json} in the
// working directory, CTORGEN_* environment variables and flags, in that order.
func loadConfig(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CTORGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configName)
	v.AddConfigPath(cwd)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "error reading config %s", configName)
		}
	}

	if flags != nil {
		for _, key := range []string{keyDir, keyRecursive, keySuffix, keyTag, keyVerbose} {
			if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
				return nil, errors.Wrapf(err, "error binding flag %s", key)
			}
		}
		if err := v.BindPFlag(keyDryRun, flags.Lookup(flagDryRun)); err != nil {
			return nil, errors.Wrapf(err, "error binding flag %s", flagDryRun)
		}
	}
	return v, nil
}

func funcOptionsFromConfig(v *viper.Viper) FuncOptions {
	return FuncOptions{
		Dir(v.GetString(keyDir)),
		Recursive(v.GetBool(keyRecursive)),
		Suffix(v.GetString(keySuffix)),
		TagKey(v.GetString(keyTag)),
		DryRun(v.GetBool(keyDryRun)),
	}
}
