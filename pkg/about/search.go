package about

// NonIndexableKeys lists the entries that search must not offer because
// the screen would hide them.
func NonIndexableKeys(env *Env) []string {
	var keys []string
	if env.missing(PropSELinux) {
		keys = append(keys, KeySELinuxStatus)
	}
	if env.missing(PropSafetyLegal) {
		keys = append(keys, KeySafetyLegal)
	}
	if env.missing(PropEquipmentID) {
		keys = append(keys, KeyEquipmentID)
	}
	if env.Flags.WifiOnly {
		keys = append(keys, KeyBasebandVersion)
	}
	if env.Flags.FeedbackReporter == "" {
		keys = append(keys, KeyDeviceFeedback)
	}
	return keys
}
