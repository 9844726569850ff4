package about

import (
	"strings"

	"gitlab.com/tinyland/lab/device-info/pkg/kernel"
)

// Entries returns the about screen declaration in display order.
func Entries() []Entry {
	return []Entry{
		{
			Key:     KeyFirmwareVersion,
			Title:   "Android version",
			Value:   propValue(PropVersionRelease),
			Enabled: true,
		},
		{
			Key:     KeySecurityPatch,
			Title:   "Android security patch level",
			Visible: propPresent(PropSecurityPatch),
			Value:   propValue(PropSecurityPatch),
		},
		{
			Key:     KeyBasebandVersion,
			Title:   "Baseband version",
			Visible: func(e *Env) bool { return !e.Flags.WifiOnly },
			Value:   propValue(PropBaseband),
		},
		{
			Key:   KeyDeviceModel,
			Title: "Model",
			Value: propValue(PropProductModel),
		},
		{
			Key:     KeyEquipmentID,
			Title:   "Equipment ID",
			Visible: propPresent(PropEquipmentID),
			Value:   propValue(PropEquipmentID),
		},
		{
			Key:     KeyBuildNumber,
			Title:   "Build number",
			Value:   propValue(PropDisplayID),
			Enabled: true,
		},
		{
			Key:     KeyCitrusVersion,
			Title:   "Citrus version",
			Value:   propValue(PropCitrusVersion),
			Enabled: true,
		},
		{
			Key:      KeyDeviceMaintainer,
			Title:    "Device maintainer",
			Value:    propValue(PropMaintainer),
			TitleFor: maintainerTitle,
		},
		{
			Key:     KeyQGPVersion,
			Title:   "QGP version",
			Visible: func(e *Env) bool { return QGPVersion(e) != "" },
			Value:   QGPVersion,
		},
		{
			Key:     KeyKernelVersion,
			Title:   "Kernel version",
			Value:   KernelVersion,
			Enabled: true,
		},
		{
			Key:     KeyMBNVersion,
			Title:   "MBN version",
			Visible: func(e *Env) bool { return MBNVersion(e) != "" },
			Value:   MBNVersion,
		},
		{
			Key:     KeySELinuxStatus,
			Title:   "SELinux status",
			Visible: propPresent(PropSELinux),
			Value:   SELinuxStatus,
		},
		{
			Key:     KeyAboutCitrus,
			Title:   "About Citrus",
			Visible: func(e *Env) bool { return e.installed(AboutCitrusPackage) },
			Enabled: true,
		},
		{
			Key:     KeySafetyLegal,
			Title:   "Safety legal",
			Visible: propPresent(PropSafetyLegal),
			Enabled: true,
		},
		{
			Key:     KeyDeviceFeedback,
			Title:   "Send feedback about this device",
			Visible: func(e *Env) bool { return e.Flags.FeedbackReporter != "" },
			Enabled: true,
		},
		{
			Key:     KeyManual,
			Title:   "Manual",
			Visible: func(e *Env) bool { return e.Flags.ShowManual },
			Enabled: true,
		},
		{
			Key:   KeyRegulatoryInfo,
			Title: "Regulatory labels",
			Visible: func(e *Env) bool {
				return e.Flags.ShowRegulatoryInfo && e.resolvable(ActionRegulatoryInfo)
			},
			Enabled: true,
		},
		{
			Key:     KeySafetyInfo,
			Title:   "Safety & regulatory manual",
			Visible: func(e *Env) bool { return e.resolvable(ActionSafetyRegulatoryInfo) },
			Enabled: true,
		},
	}
}

func propValue(key string) func(*Env) string {
	return func(e *Env) string { return e.prop(key) }
}

func propPresent(key string) func(*Env) bool {
	return func(e *Env) bool { return !e.missing(key) }
}

// maintainerTitle pluralizes the title for a comma-separated list.
func maintainerTitle(value string) string {
	if strings.Contains(value, ",") {
		return "Device maintainers"
	}
	return "Device maintainer"
}

// KernelVersion is the formatted kernel version. With
// Flags.HideKernelVersionName the builder line is left out.
func KernelVersion(e *Env) string {
	display := e.formatter().ReadDisplay(e.lines())
	if !e.Flags.HideKernelVersionName || display == kernel.Unavailable {
		return display
	}
	lines := strings.Split(display, "\n")
	if len(lines) != 3 {
		return display
	}
	return lines[0] + "\n" + lines[2]
}

// SELinuxStatus reports the SELinux mode as shown on the screen.
func SELinuxStatus(e *Env) string {
	switch {
	case e.SELinux == nil || !e.SELinux.Enabled():
		return "Disabled"
	case !e.SELinux.Enforced():
		return "Permissive"
	default:
		return "Enforcing"
	}
}
