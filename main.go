package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/snehendu098/ghost/snverify/pkg/log"
	"github.com/snehendu098/ghost/snverify/pkg/sign"
	"github.com/snehendu098/ghost/snverify/pkg/starknet"
	"github.com/snehendu098/ghost/snverify/pkg/typeddata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := newCLI(os.Stdout, nil)
	err := app.App().RunContext(ctx, os.Args)
	stop()
	if err != nil {
		app.logger.Error("snverify failed", "error", err)
	}
	app.closeLogger()
	if err != nil {
		os.Exit(1)
	}
}

// cliApp holds what every command shares once the environment is loaded.
type cliApp struct {
	out     io.Writer
	logger  log.Logger
	fixed   bool
	conf    *Config
	metrics *Metrics
}

// newCLI writes command results to out. A nil logger is built from LOG_*
// variables after the env file is loaded.
func newCLI(out io.Writer, logger log.Logger) *cliApp {
	a := &cliApp{out: out, logger: logger, fixed: logger != nil, metrics: NewMetrics()}
	if logger == nil {
		// stderr output cannot fail to open.
		a.logger, _ = log.NewZapLogger(log.Config{Format: "console", Level: log.LevelInfo, Output: "stderr"})
	}
	return a
}

// closeLogger flushes the logger and releases its log file.
func (a *cliApp) closeLogger() {
	if c, ok := a.logger.(io.Closer); ok {
		_ = c.Close()
		return
	}
	_ = a.logger.Sync()
}

func (a *cliApp) App() *cli.App {
	return &cli.App{
		Name:  "snverify",
		Usage: "Sign Starknet typed data and have the account contract validate the signature",
		Description: `Reads ADDRESS and PRIVATE_KEY from the environment (or an env file), signs a
SNIP-12 typed message for the account and calls is_valid_signature on it.

Without a command the full sign and verify flow runs.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Env file loaded before reading configuration",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "typed-data",
				Usage: "JSON or YAML typed data file to sign instead of the built-in message",
			},
		},
		Before: a.before,
		After:  a.after,
		Action: a.verifyCommand,
		Commands: []*cli.Command{
			{
				Name:   "verify",
				Usage:  "Sign the message and validate the signature against the account contract",
				Action: a.verifyCommand,
			},
			{
				Name:   "hash",
				Usage:  "Print the message hash for ADDRESS",
				Action: a.hashCommand,
			},
			{
				Name:   "sign",
				Usage:  "Sign the message and verify the signature locally",
				Action: a.signCommand,
			},
			{
				Name:   "pubkey",
				Usage:  "Print the Stark public key of PRIVATE_KEY",
				Action: a.pubkeyCommand,
			},
		},
	}
}

func (a *cliApp) before(c *cli.Context) error {
	conf, err := LoadConfig(c.String("env-file"), a.logger)
	if err != nil {
		return err
	}
	a.conf = conf

	if !a.fixed {
		logConf, err := log.ConfigFromEnv()
		if err != nil {
			return fmt.Errorf("failed to read log config: %w", err)
		}
		logger, err := log.NewZapLogger(logConf)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		a.logger = logger
	}
	return nil
}

func (a *cliApp) after(*cli.Context) error {
	if a.conf == nil || a.conf.MetricsTextfile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.conf.MetricsTextfile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func (a *cliApp) typedData(c *cli.Context) (*typeddata.TypedData, error) {
	path := c.String("typed-data")
	if path == "" {
		return DefaultTypedData(), nil
	}
	td, err := typeddata.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load typed data: %w", err)
	}
	a.logger.Debug("typed data loaded", "path", path, "primary_type", td.PrimaryType)
	return td, nil
}

// account binds the configured address to a signer. Without PRIVATE_KEY
// the signer is nil and only hashing works.
func (a *cliApp) account() (*starknet.Account, error) {
	var signer sign.Signer
	if a.conf.PrivateKey != "" {
		var err error
		if signer, err = sign.NewStarkSigner(a.conf.PrivateKey); err != nil {
			return nil, err
		}
	}
	return starknet.NewAccount(a.conf.Address, signer)
}

func (a *cliApp) verifyCommand(c *cli.Context) error {
	if err := a.conf.Validate(envAddress, envPrivateKey, envRPCURL); err != nil {
		return err
	}
	td, err := a.typedData(c)
	if err != nil {
		return err
	}
	account, err := a.account()
	if err != nil {
		return err
	}

	provider, err := starknet.NewProvider(c.Context, a.conf.RPCURL,
		starknet.WithLogger(a.logger),
		starknet.WithObserver(a.metrics.ObserveRPC),
	)
	if err != nil {
		return err
	}
	defer provider.Close()

	ctx := log.SetContextLogger(c.Context, a.logger)
	return NewVerifier(account, provider, td, a.metrics, a.out).Run(ctx)
}

func (a *cliApp) hashCommand(c *cli.Context) error {
	if err := a.conf.Validate(envAddress); err != nil {
		return err
	}
	td, err := a.typedData(c)
	if err != nil {
		return err
	}
	account, err := starknet.NewAccount(a.conf.Address, nil)
	if err != nil {
		return err
	}
	hash, err := account.MessageHash(td)
	if err != nil {
		return fmt.Errorf("failed to compute message hash: %w", err)
	}
	fmt.Fprintf(a.out, "Message Hash: %s\n", hash)
	return nil
}

func (a *cliApp) signCommand(c *cli.Context) error {
	if err := a.conf.Validate(envAddress, envPrivateKey); err != nil {
		return err
	}
	td, err := a.typedData(c)
	if err != nil {
		return err
	}
	account, err := a.account()
	if err != nil {
		return err
	}

	sig, hash, err := NewVerifier(account, nil, td, a.metrics, a.out).Sign()
	if err != nil {
		return err
	}
	ok, err := account.VerifyMessage(td, sig)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signature: %s\n", sig)
	fmt.Fprintf(a.out, "Message Hash: %s\n", hash)
	fmt.Fprintf(a.out, "Public Key: %s\n", account.Signer.PublicKey().Felt())
	fmt.Fprintf(a.out, "Verified locally: %t\n", ok)
	return nil
}

func (a *cliApp) pubkeyCommand(*cli.Context) error {
	if err := a.conf.Validate(envPrivateKey); err != nil {
		return err
	}
	signer, err := sign.NewStarkSigner(a.conf.PrivateKey)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Public Key: %s\n", signer.PublicKey().Felt())
	return nil
}
