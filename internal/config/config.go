package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	Server Server
}

type Server struct {
	DataRoot string `envconfig:"WORLDS_FANTASY_DATA_ROOT" default:"data"`
	APIKey   string `envconfig:"WORLDS_FANTASY_API_KEY"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
