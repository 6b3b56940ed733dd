package settle

import (
	"fmt"

	"github.com/arthur-debert/settle/internal/version"
	"github.com/arthur-debert/settle/pkg/config"
	"github.com/arthur-debert/settle/pkg/logging"
	"github.com/arthur-debert/settle/pkg/ui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// configKeyAnnotation ties a flag to the config key it overrides
	configKeyAnnotation = "settle/config-key"
	// standaloneAnnotation marks commands that do not need the configuration
	standaloneAnnotation = "settle/standalone"
)

// app is the state shared by every command once flags are parsed
type app struct {
	verbosity   int
	configFiles []string
	formatName  string

	cfg    *config.Config
	format ui.Format
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "settle",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			if _, ok := cmd.Annotations[standaloneAnnotation]; ok {
				return nil
			}
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	bindConfigKey(rootCmd.PersistentFlags(), "verbose", "log.verbosity")
	rootCmd.PersistentFlags().StringArrayVarP(&a.configFiles, "config", "c", nil, MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&a.formatName, "format", "f", "auto", MsgFlagFormat)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newExecCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// load resolves the output format and the layered configuration. Flags
// annotated with a config key override the matching setting when set.
func (a *app) load(cmd *cobra.Command) error {
	format, err := ui.ParseFormat(a.formatName)
	if err != nil {
		return err
	}
	a.format = format

	overrides := map[string]interface{}{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if keys, ok := f.Annotations[configKeyAnnotation]; ok && len(keys) > 0 {
			overrides[keys[0]] = f.Value.String()
		}
	})

	cfg, err := config.Load(config.LoadOptions{
		Files:     a.configFiles,
		Overrides: overrides,
	})
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}
	a.cfg = cfg

	if cfg.Log.Verbosity != a.verbosity {
		zerolog.SetGlobalLevel(logging.LevelFor(cfg.Log.Verbosity))
	}
	return nil
}

func bindConfigKey(flags *pflag.FlagSet, name, key string) {
	_ = flags.SetAnnotation(name, configKeyAnnotation, []string{key})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       MsgVersionShort,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{standaloneAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Annotations:           map[string]string{standaloneAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
