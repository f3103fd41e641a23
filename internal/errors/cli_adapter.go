package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Exit codes returned by the docversions CLI.
const (
	ExitOK       = 0
	ExitGeneral  = 1
	ExitUsage    = 2
	ExitConfig   = 7
	ExitHook     = 9
	ExitInternal = 10
	ExitBuild    = 11
	ExitRuntime  = 12
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: ExitUsage,
	CategoryConfig:     ExitConfig,
	CategoryHook:       ExitHook,
	CategoryTheme:      ExitBuild,
	CategoryAsset:      ExitBuild,
	CategoryFileSystem: ExitBuild,
	CategoryRuntime:    ExitRuntime,
	CategoryInternal:   ExitInternal,
}

// hints are follow-up suggestions printed under errors of a given kind.
var hints = map[error]string{
	ErrDuplicateAsset:  "remove the path from the option or set versions.version_selector: false",
	ErrUnsupportedHook: "hook modules may only export on_pre_commit; rename or localize other on_* functions",
	ErrModuleLoad:      "check that the file exists and is valid Lua",
}

// CLIErrorAdapter turns errors into exit codes and user-facing messages.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	dve, ok := As(err)
	if !ok {
		return ExitGeneral
	}
	if code, ok := exitCodes[dve.Category]; ok {
		return code
	}
	return ExitGeneral
}

// FormatError formats an error for display. Verbose adapters show the full
// chain; otherwise configuration problems show only their message.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	dve, ok := As(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}

	var msg string
	switch {
	case a.verbose:
		msg = dve.Error()
	case dve.Category == CategoryConfig || dve.Category == CategoryValidation:
		msg = dve.Message
	case dve.Cause != nil:
		msg = fmt.Sprintf("%s: %s: %v", dve.Category, dve.Message, dve.Cause)
	default:
		msg = fmt.Sprintf("%s: %s", dve.Category, dve.Message)
	}

	if a.verbose {
		if hint := hintFor(dve); hint != "" {
			msg += "\n  hint: " + hint
		}
	}
	return msg
}

func hintFor(err *DocVersionsError) string {
	for kind, hint := range hints {
		if errors.Is(err, kind) {
			return hint
		}
	}
	return ""
}

// HandleError reports err and exits with its code. A nil error is a no-op.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.stderr, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

// shouldLog reports whether err is logged in addition to being printed.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	if dve, ok := As(err); ok {
		return dve.Category == CategoryInternal || dve.Category == CategoryRuntime
	}
	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	dve, ok := As(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	keys := make([]string, 0, len(dve.Context))
	for k := range dve.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := []slog.Attr{slog.String("category", string(dve.Category))}
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, dve.Context[k]))
	}
	if dve.Cause != nil {
		attrs = append(attrs, slog.String("cause", strings.TrimSpace(dve.Cause.Error())))
	}
	a.logger.LogAttrs(context.Background(), levelFor(dve.Severity), dve.Message, attrs...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
