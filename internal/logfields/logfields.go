package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeySessionID  = "session_id"
	KeyPhase      = "phase"
	KeyHookPath   = "hook_path"
	KeyEvent      = "event"
	KeyHandlers   = "handlers"
	KeyTheme      = "theme"
	KeyAssetKind  = "asset_kind"
	KeyAsset      = "asset"
	KeySiteURL    = "site_url"
	KeyVersion    = "version"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func SessionID(id string) slog.Attr   { return slog.String(KeySessionID, id) }
func Phase(name string) slog.Attr     { return slog.String(KeyPhase, name) }
func HookPath(p string) slog.Attr     { return slog.String(KeyHookPath, p) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }
func Handlers(n int) slog.Attr        { return slog.Int(KeyHandlers, n) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func AssetKind(k string) slog.Attr    { return slog.String(KeyAssetKind, k) }
func Asset(p string) slog.Attr        { return slog.String(KeyAsset, p) }
func SiteURL(u string) slog.Attr      { return slog.String(KeySiteURL, u) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
