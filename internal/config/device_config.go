package config

const (
	mobilePatternVar = "DEVICE_MOBILE_PATTERN"
	tabletPatternVar = "DEVICE_TABLET_PATTERN"

	DefaultMobilePattern = `(?i)mobile|iphone|ipod|blackberry|iemobile|opera mini|windows phone`
	DefaultTabletPattern = `(?i)ipad|tablet|playbook|silk|kindle|android`
)

// DeviceConfig holds the user-agent heuristics used to classify the device.
// They are policy, not contract.
type DeviceConfig interface {
	GetMobilePattern() string
	GetTabletPattern() string
}

type Device struct {
	file *fileValues
}

var _ DeviceConfig = Device{}

func (d Device) GetMobilePattern() string {
	return GetEnv(mobilePatternVar, fileOr(d.file, func(f *fileValues) string { return f.Device.MobilePattern }, DefaultMobilePattern))
}

func (d Device) GetTabletPattern() string {
	return GetEnv(tabletPatternVar, fileOr(d.file, func(f *fileValues) string { return f.Device.TabletPattern }, DefaultTabletPattern))
}
