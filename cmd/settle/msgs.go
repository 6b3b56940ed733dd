package settle

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Run commands under a structured execution runtime"
	MsgExecShort       = "Run a command with retry, backoff and timeout"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file to load instead of the default search paths (repeatable)"
	MsgFlagFormat   = "Report format: auto, term, text or json"
	MsgFlagAttempts = "Maximum number of attempts"
	MsgFlagDelay    = "Base backoff delay between attempts"
	MsgFlagBackoff  = "Backoff curve: exponential or linear"
	MsgFlagTimeout  = "Deadline for each attempt (0 disables it)"
	MsgFlagOutput   = "Output format: toml or yaml"
	MsgFlagDefaults = "Print the embedded defaults, with comments, instead"

	// Error messages
	MsgErrNoCommand  = "no command specified"
	MsgErrLoadConfig = "failed to load configuration: %w"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/exec-long.txt
	msgExecLongRaw string
	MsgExecLong    = strings.TrimSpace(msgExecLongRaw)

	//go:embed msgs/exec-example.txt
	msgExecExampleRaw string
	MsgExecExample    = strings.TrimRight(msgExecExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
