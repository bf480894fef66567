package config

import "errors"

// ErrLoadConfig wraps failures reading the .env file, the YAML file named by
// IGNITE_CONFIG or the environment.
var ErrLoadConfig = errors.New("config: cannot load")

// ErrInvalidConfig wraps values that parsed but cannot run the service, such
// as an unknown mode or a negative weight.
var ErrInvalidConfig = errors.New("config: invalid value")
