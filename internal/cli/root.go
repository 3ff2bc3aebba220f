package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chen-qa/dynamic-choice/internal/choiceserver"
	"github.com/chen-qa/dynamic-choice/internal/logx"
	"github.com/chen-qa/dynamic-choice/pkg/config"
	"github.com/chen-qa/dynamic-choice/pkg/param"
	"github.com/chen-qa/dynamic-choice/pkg/resolver"
)

type rootOptions struct {
	cfgPath  string
	logLevel string
}

// Execute runs the dynchoice command line.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "dynchoice",
		Short:         "Resolve dynamic choice lists from remote JSON/XML/text resources",
		Long:          "dynchoice - 从远程 JSON/XML/文本 资源解析动态选项列表",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.cfgPath, "config", "c", "", "config yaml path (defaults and DYNCHOICE_* env when empty)")
	pf.StringVar(&opts.logLevel, "log-level", "", "override logging.level (commands other than serve default to warn)")

	cmd.AddCommand(
		newResolveCmd(opts),
		newParamsCmd(opts),
		newCheckCmd(),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if strings.TrimSpace(o.cfgPath) == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(o.cfgPath)
	}
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(o.logLevel); v != "" {
		cfg.Logging.Level = v
	}
	return cfg, nil
}

// quiet lowers the default level for one-shot commands unless a level was
// asked for explicitly.
func (o *rootOptions) quiet(cfg *config.Config) {
	if strings.TrimSpace(o.logLevel) == "" && strings.TrimSpace(os.Getenv("DYNCHOICE_LOG_LEVEL")) == "" {
		cfg.Logging.Level = "warn"
	}
}

// logger writes to w. Commands other than serve pass stderr so their stdout
// stays parseable.
func (o *rootOptions) logger(cfg *config.Config, w io.Writer) (*zerolog.Logger, error) {
	l, err := logx.New(cfg.Logging, w)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (o *rootOptions) resolver(cmd *cobra.Command) (*resolver.Resolver, *config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	o.quiet(cfg)
	log, err := o.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return resolver.New(choiceserver.NewFetcher(cfg.Fetch), log), cfg, nil
}

func (o *rootOptions) registry() (*param.Registry, *config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	reg, err := param.LoadRegistry(cfg.Parameters.File)
	if err != nil {
		return nil, nil, fmt.Errorf("load parameters file %s failed: %w", cfg.Parameters.File, err)
	}
	return reg, cfg, nil
}
