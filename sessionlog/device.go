package sessionlog

import (
	"fmt"
	"regexp"

	"github.com/jrsteele09/news-admin/internal/config"
)

// DeviceType is the coarse device class reported with a new session.
type DeviceType string

const (
	DeviceMobile DeviceType = "mobile"
	DeviceTablet DeviceType = "tablet"
	DeviceWeb    DeviceType = "web"
)

// DeviceClassifier sorts user-agent strings into device classes. The patterns
// are configurable; user-agent sniffing is approximate.
type DeviceClassifier struct {
	mobile *regexp.Regexp
	tablet *regexp.Regexp
}

// NewDeviceClassifier compiles the mobile and tablet patterns.
func NewDeviceClassifier(mobilePattern, tabletPattern string) (*DeviceClassifier, error) {
	mobile, err := regexp.Compile(mobilePattern)
	if err != nil {
		return nil, fmt.Errorf("mobile pattern: %w", err)
	}
	tablet, err := regexp.Compile(tabletPattern)
	if err != nil {
		return nil, fmt.Errorf("tablet pattern: %w", err)
	}
	return &DeviceClassifier{mobile: mobile, tablet: tablet}, nil
}

// DefaultDeviceClassifier uses the built-in patterns.
func DefaultDeviceClassifier() *DeviceClassifier {
	return &DeviceClassifier{
		mobile: regexp.MustCompile(config.DefaultMobilePattern),
		tablet: regexp.MustCompile(config.DefaultTabletPattern),
	}
}

// Classify checks the mobile set first, then the tablet set.
func (c *DeviceClassifier) Classify(userAgent string) DeviceType {
	switch {
	case c.mobile.MatchString(userAgent):
		return DeviceMobile
	case c.tablet.MatchString(userAgent):
		return DeviceTablet
	default:
		return DeviceWeb
	}
}
