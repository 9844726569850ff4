// Package about builds the "about this device" screen. The screen is a
// fixed, ordered list of entries; each entry carries a visibility
// predicate and a value source that are evaluated against an Env when the
// screen is built. Nothing is mutated after construction: hiding an entry
// means filtering it out of the result.
package about

import (
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/device-info/pkg/kernel"
	"gitlab.com/tinyland/lab/device-info/pkg/sysprop"
)

// Entry keys.
const (
	KeyFirmwareVersion  = "firmware_version"
	KeySecurityPatch    = "security_patch"
	KeyBasebandVersion  = "baseband_version"
	KeyDeviceModel      = "device_model"
	KeyEquipmentID      = "fcc_equipment_id"
	KeyBuildNumber      = "build_number"
	KeyCitrusVersion    = "citrus_version"
	KeyDeviceMaintainer = "device_maintainer"
	KeyQGPVersion       = "qgp_version"
	KeyKernelVersion    = "kernel_version"
	KeyMBNVersion       = "mbn_version"
	KeySELinuxStatus    = "selinux_status"
	KeyAboutCitrus      = "aboutcitrus"
	KeySafetyLegal      = "safetylegal"
	KeyDeviceFeedback   = "device_feedback"
	KeyManual           = "manual"
	KeyRegulatoryInfo   = "regulatory_info"
	KeySafetyInfo       = "safety_info"
)

// Property names.
const (
	PropVersionRelease = "ro.build.version.release"
	PropSecurityPatch  = "ro.build.version.security_patch"
	PropBaseband       = "gsm.version.baseband"
	PropProductModel   = "ro.product.model"
	PropEquipmentID    = "ro.ril.fccid"
	PropDisplayID      = "ro.build.display.id"
	PropCitrusVersion  = "ro.citrus.version"
	PropMaintainer     = "ro.citrus.maintainer"
	PropSELinux        = "ro.build.selinux"
	PropSafetyLegal    = "ro.url.safetylegal"
)

// Intent actions the screen checks for a handler.
const (
	ActionRegulatoryInfo       = "android.settings.SHOW_REGULATORY_INFO"
	ActionSafetyRegulatoryInfo = "android.settings.SHOW_SAFETY_AND_REGULATORY_INFO"
	ActionView                 = "android.intent.action.VIEW"
)

// AboutCitrusPackage must be installed for the about-citrus entry to show.
const AboutCitrusPackage = "com.citrus.aboutcitrus"

// RestrictionNoFun blocks the firmware version easter egg.
const RestrictionNoFun = "no_fun"

// Default file locations for the regionalization version files.
const (
	DefaultQGPVersionPath = "/persist/speccfg/devicetype"
	DefaultMBNVersionPath = "/persist/speccfg/mbnversion"
)

// DefaultValue is shown when a property has no value.
const DefaultValue = "Unknown"

// PackageChecker reports installed packages.
type PackageChecker interface {
	Installed(name string) bool
}

// IntentResolver reports whether some component handles an action.
type IntentResolver interface {
	Resolvable(action string) bool
}

// RestrictionChecker reports user restrictions.
type RestrictionChecker interface {
	// Restricted reports whether name applies to the current user.
	Restricted(name string) bool
	// EnforcedByAdmin reports whether a device admin imposes name.
	EnforcedByAdmin(name string) bool
	// SetBySystem reports whether name is a base restriction of the user.
	SetBySystem(name string) bool
}

// SELinuxProbe reports the SELinux mode.
type SELinuxProbe interface {
	Enabled() bool
	Enforced() bool
}

// LinesReader reads a whole text file as lines.
type LinesReader interface {
	ReadLines(path string) ([]string, error)
}

// Flags are device configuration switches.
type Flags struct {
	WifiOnly              bool
	ShowManual            bool
	ShowRegulatoryInfo    bool
	HideKernelVersionName bool
	FeedbackReporter      string
	QGPVersionPath        string
	MBNVersionPath        string
}

// Env carries everything the screen reads. Nil collaborators behave as
// "nothing installed, nothing resolvable, nothing restricted".
type Env struct {
	Props        sysprop.Source
	Kernel       *kernel.Formatter
	Lines        kernel.LineReader
	Files        LinesReader
	Packages     PackageChecker
	Intents      IntentResolver
	Restrictions RestrictionChecker
	SELinux      SELinuxProbe
	Flags        Flags
	Logger       *slog.Logger
}

func (e *Env) props() sysprop.Source {
	if e.Props == nil {
		return sysprop.Map{}
	}
	return e.Props
}

func (e *Env) prop(key string) string {
	return sysprop.Get(e.props(), key, DefaultValue)
}

func (e *Env) missing(key string) bool {
	return sysprop.Missing(e.props(), key)
}

func (e *Env) installed(name string) bool {
	return e.Packages != nil && e.Packages.Installed(name)
}

func (e *Env) resolvable(action string) bool {
	return e.Intents != nil && e.Intents.Resolvable(action)
}

func (e *Env) files() LinesReader {
	if e.Files == nil {
		return OSFiles{}
	}
	return e.Files
}

func (e *Env) formatter() *kernel.Formatter {
	if e.Kernel == nil {
		return kernel.NewFormatter(e.log())
	}
	return e.Kernel
}

func (e *Env) lines() kernel.LineReader {
	if e.Lines == nil {
		return kernel.HostLineReader{}
	}
	return e.Lines
}

func (e *Env) log() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

// Item is one visible row of the screen.
type Item struct {
	Key     string `json:"key" yaml:"key"`
	Title   string `json:"title" yaml:"title"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Entry declares one row of the screen.
type Entry struct {
	Key   string
	Title string
	// Visible reports whether the row is shown. Nil means always.
	Visible func(*Env) bool
	// Value produces the summary text. Nil means no summary.
	Value func(*Env) string
	// TitleFor overrides Title based on the computed value.
	TitleFor func(value string) string
	Enabled  bool
}

// Screen evaluates entries against env in order and returns the visible
// rows.
func Screen(env *Env, entries []Entry) []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.Visible != nil && !e.Visible(env) {
			continue
		}
		item := Item{Key: e.Key, Title: e.Title, Enabled: e.Enabled}
		if e.Value != nil {
			item.Value = e.Value(env)
		}
		if e.TitleFor != nil {
			item.Title = e.TitleFor(item.Value)
		}
		items = append(items, item)
	}
	return items
}

// Build returns the standard about screen for env.
func Build(env *Env) []Item {
	return Screen(env, Entries())
}

// Summary is the one-line description shown for the screen in menus.
func Summary(env *Env) string {
	return "Android " + env.prop(PropVersionRelease)
}
