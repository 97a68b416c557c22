// Copyright 2016-2017 Percona LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConnectionConfig describes how to reach the PgBouncer admin console when no DSN is given.
type ConnectionConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// CollectConfig enables collectors.
type CollectConfig struct {
	Stats     bool `yaml:"stats"`
	Pools     bool `yaml:"pools"`
	Databases bool `yaml:"databases"`
	Lists     bool `yaml:"lists"`
}

// Config is the exporter configuration, built from flags and an optional YAML file.
type Config struct {
	DSN        string           `yaml:"dsn"`
	Connection ConnectionConfig `yaml:"connection"`
	Namespace  string           `yaml:"namespace"`
	// nil means all databases
	Databases []string      `yaml:"databases"`
	Collect   CollectConfig `yaml:"collect"`
}

// fileConfig mirrors the YAML structure of the config file.
// Pointers tell unset collector switches from disabled ones.
type fileConfig struct {
	DSN        string           `yaml:"dsn"`
	Connection ConnectionConfig `yaml:"connection"`
	Namespace  string           `yaml:"namespace"`
	Databases  []string         `yaml:"databases"`
	Collect    struct {
		Stats     *bool `yaml:"stats"`
		Pools     *bool `yaml:"pools"`
		Databases *bool `yaml:"databases"`
		Lists     *bool `yaml:"lists"`
	} `yaml:"collect"`
}

// loadConfigFile reads path and overrides cfg with every value set in the file.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config %s", path)
	}

	var f fileConfig
	if err = yaml.Unmarshal(data, &f); err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}

	if f.DSN != "" {
		cfg.DSN = f.DSN
	}
	for _, v := range []struct {
		dst *string
		src string
	}{
		{&cfg.Connection.Host, f.Connection.Host},
		{&cfg.Connection.Port, f.Connection.Port},
		{&cfg.Connection.User, f.Connection.User},
		{&cfg.Connection.Password, f.Connection.Password},
		{&cfg.Connection.DBName, f.Connection.DBName},
		{&cfg.Namespace, f.Namespace},
	} {
		if v.src != "" {
			*v.dst = v.src
		}
	}
	if len(f.Databases) > 0 {
		cfg.Databases = f.Databases
	}
	for _, v := range []struct {
		dst *bool
		src *bool
	}{
		{&cfg.Collect.Stats, f.Collect.Stats},
		{&cfg.Collect.Pools, f.Collect.Pools},
		{&cfg.Collect.Databases, f.Collect.Databases},
		{&cfg.Collect.Lists, f.Collect.Lists},
	} {
		if v.src != nil {
			*v.dst = *v.src
		}
	}
	return nil
}

// dataSourceName returns cfg.DSN, or a lib/pq key/value connection string
// built from cfg.Connection with empty parts left out.
func (cfg *Config) dataSourceName() string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	params := map[string]string{
		"host":     cfg.Connection.Host,
		"port":     cfg.Connection.Port,
		"user":     cfg.Connection.User,
		"password": cfg.Connection.Password,
		"dbname":   cfg.Connection.DBName,
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+quoteParam(params[k]))
	}
	return strings.Join(parts, " ")
}

// quoteParam quotes a connection string value when it is empty or holds
// spaces, quotes or backslashes.
func quoteParam(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
