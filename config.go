package main

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/snehendu098/ghost/snverify/pkg/log"
)

const defaultRPCURL = "https://rpc.starknet-testnet.lava.build/v0_5"

// Environment variable names, also used as field names in validation errors.
const (
	envAddress    = "ADDRESS"
	envPrivateKey = "PRIVATE_KEY"
	envRPCURL     = "STARKNET_RPC_URL"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the process configuration. PrivateKey must never be logged.
type Config struct {
	Address         string `env:"ADDRESS" validate:"required,hexadecimal"`
	PrivateKey      string `env:"PRIVATE_KEY" validate:"required,hexadecimal"`
	RPCURL          string `env:"STARKNET_RPC_URL" env-default:"https://rpc.starknet-testnet.lava.build/v0_5" validate:"required,url"`
	MetricsTextfile string `env:"METRICS_TEXTFILE"`
}

// LoadConfig loads envFile into the environment (existing variables win) and
// reads Config from it. A missing env file is only a warning.
func LoadConfig(envFile string, logger log.Logger) (*Config, error) {
	logger = logger.WithName("config")

	if envFile != "" {
		logger.Debug("loading .env file", "path", envFile)
		if err := godotenv.Load(envFile); err != nil {
			logger.Warn(".env file not loaded", "path", envFile, "error", err)
		}
	}

	var conf Config
	if err := cleanenv.ReadEnv(&conf); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	return &conf, nil
}

func getValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their environment variable.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return validate
}

// Validate checks the fields named by their environment variables. Fields
// not listed are ignored, so commands only demand what they use.
func (c *Config) Validate(fields ...string) error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var problems []string
	for _, fe := range verrs {
		if !slices.Contains(fields, fe.Field()) {
			continue
		}
		switch fe.Tag() {
		case "required":
			problems = append(problems, fe.Field()+" is required")
		default:
			problems = append(problems, fmt.Sprintf("%s must be a valid %s", fe.Field(), fe.Tag()))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}
