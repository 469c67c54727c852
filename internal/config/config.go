package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "TRIPPLANNER_"

type Application struct {
	Server   Server   `koanf:"server"`
	Storage  Storage  `koanf:"storage"`
	Database Database `koanf:"db"`
	Planner  Planner  `koanf:"planner"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type StorageDriver string

const (
	MemoryStorage   StorageDriver = "memory"
	SQLiteStorage   StorageDriver = "sqlite"
	PostgresStorage StorageDriver = "postgres"
)

type Storage struct {
	Driver StorageDriver `koanf:"driver"`
	SQLite SQLite        `koanf:"sqlite"`
}

type SQLite struct {
	Path string `koanf:"path"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Planner struct {
	// Timezone decides which calendar day "today" is.
	Timezone string `koanf:"timezone"`
	// BulkValidation is either "none" or "strict".
	BulkValidation string `koanf:"bulkvalidation"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Addr: ":8181",
		},
		Storage: Storage{
			Driver: MemoryStorage,
			SQLite: SQLite{Path: "./data/tripplanner.db"},
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "tripplanner",
			Pass:   "",
			Name:   "tripplanner",
			Schema: "tripplanner",
		},
		Planner: Planner{
			Timezone:       "Local",
			BulkValidation: "none",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
