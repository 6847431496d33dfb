// Package commands defines the blobctl command tree.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/koustreak/blobappend/internal/config"
	"github.com/koustreak/blobappend/internal/filestore"
	"github.com/koustreak/blobappend/internal/filestore/memory"
	"github.com/koustreak/blobappend/internal/logger"
	"github.com/koustreak/blobappend/internal/objectstore"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	provider   string
	logLevel   string
	logFormat  string

	// dial overrides the provider dialer when non-nil.
	dial objectstore.Dialer

	cfg    *config.Config
	log    *logger.Logger
	client *objectstore.Client
}

// Root returns the root command for the blobctl CLI.
func Root() *cobra.Command {
	return newRoot(&app{})
}

func newRoot(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "blobctl",
		Short:         "Upload, append to, and fetch files in an S3 bucket",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.provider, "provider", "", "Storage provider: s3, minio or memory")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: json or console")

	cmd.AddCommand(Upload(a))
	cmd.AddCommand(Get(a))
	cmd.AddCommand(BucketCmd(a))
	cmd.AddCommand(Ping(a))

	return cmd
}

// setup loads configuration, applies flag overrides and builds the client.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = a.provider
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := cfg.Logger()
	logCfg.Output = cmd.ErrOrStderr()
	a.cfg = cfg
	a.log = logger.New(logCfg)
	a.client = objectstore.New(cfg.Store(), objectstore.WithDialer(a.dialer(cfg)))
	return nil
}

// dialer picks the connection factory. The memory provider serves a single
// empty default bucket for the life of the process, which is only useful
// for trying out flags.
func (a *app) dialer(cfg *config.Config) objectstore.Dialer {
	if a.dial != nil {
		return a.dial
	}
	if filestore.Provider(cfg.Provider) != filestore.ProviderMemory {
		return objectstore.DialProvider
	}

	store := memory.New()
	if cfg.Bucket != "" {
		store.CreateBucket(cfg.Bucket)
	}
	return func(context.Context, *filestore.Config) (filestore.Store, error) {
		return store, nil
	}
}

// ctx attaches the app logger to the command's context.
func (a *app) ctx(cmd *cobra.Command) context.Context {
	return a.log.WithContext(cmd.Context())
}
