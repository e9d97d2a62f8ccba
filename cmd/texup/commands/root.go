package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mreinstein/texture2d/internal/config"
	"github.com/mreinstein/texture2d/internal/logging"
	"github.com/mreinstein/texture2d/texture"
)

var version = "0.1.0"

// options holds the state shared by the commands of one root command.
type options struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
}

var rootCmd = newRootCmd()

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "texup",
		Short: "Inspect and upload strided pixel buffers as 2-D textures",
		Long: `texup classifies images and raw strided pixel buffers the way the
texture package does before an upload: channel format, element type,
whether the buffer can be sent without a copy, and a checksum of the
packed bytes. The upload command sends them to a headless WebGPU device.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: o.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (default is $HOME/.texup/config.yaml)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "verbose output")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-file", "", "append logs to this file")
	flags.Bool("float", false, "treat the device as supporting float textures")

	cmd.SetVersionTemplate(fmt.Sprintf(
		"texup %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	cmd.AddCommand(newInspectCmd(o), newUploadCmd(o), newVersionCmd())
	return cmd
}

// setup loads the configuration and routes library logging through logrus.
func (o *options) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Init(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.Console); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	texture.SetLogger(logging.Slog())
	logging.Debugf("config loaded: %+v", *cfg)

	o.cfg = cfg
	return nil
}
