package errors

import "fmt"

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *DocVersionsError {
	return New(CategoryConfig, SeverityFatal, fmt.Sprintf("configuration file not found: %s", path)).
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *DocVersionsError {
	return New(CategoryValidation, SeverityFatal, fmt.Sprintf("invalid value for %q: %s", field, reason)).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Hook errors

func ModuleLoadError(path string, cause error) *DocVersionsError {
	return Wrap(cause, CategoryHook, SeverityFatal, fmt.Sprintf("cannot load %q as a hook module", path)).
		WithKind(ErrModuleLoad).
		WithContext("path", path)
}

func UnsupportedHookError(name, module string) *DocVersionsError {
	return New(CategoryConfig, SeverityFatal, fmt.Sprintf("hook not supported: %s in %s", name, module)).
		WithKind(ErrUnsupportedHook).
		WithContext("hook", name).
		WithContext("module", module)
}

func HookFailed(event, module string, cause error) *DocVersionsError {
	return Wrap(cause, CategoryHook, SeverityFatal, fmt.Sprintf("%s hook in %s failed", event, module)).
		WithKind(ErrHookFailed).
		WithContext("event", event).
		WithContext("module", module)
}

// Theme and asset errors

func UnsupportedTheme(name string) *DocVersionsError {
	return New(CategoryTheme, SeverityWarning, fmt.Sprintf("theme %q unsupported", name)).
		WithKind(ErrUnsupportedTheme).
		WithContext("theme", name)
}

func DuplicateAssetError(path, option string) *DocVersionsError {
	return New(CategoryConfig, SeverityFatal, fmt.Sprintf("%q is already included in %q", path, option)).
		WithKind(ErrDuplicateAsset).
		WithContext("path", path).
		WithContext("option", option)
}

// Filesystem errors

func AssetReadError(dir string, cause error) *DocVersionsError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, fmt.Sprintf("cannot list theme assets in %s", dir)).
		WithContext("dir", dir)
}

// Internal errors

func InternalError(message string, cause error) *DocVersionsError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
