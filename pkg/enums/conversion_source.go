package enums

import "fmt"

// ConversionSource identifies which tracking tier supplied an ad's conversion data.
type ConversionSource string

const (
	ConversionSourceRevoaPixel     ConversionSource = "revoa_pixel"
	ConversionSourceUTMAttribution ConversionSource = "utm_attribution"
	ConversionSourcePlatformPixel  ConversionSource = "platform_pixel"
	ConversionSourceNone           ConversionSource = "none"
)

var validConversionSources = []ConversionSource{
	ConversionSourceRevoaPixel,
	ConversionSourceUTMAttribution,
	ConversionSourcePlatformPixel,
	ConversionSourceNone,
}

// String implements fmt.Stringer.
func (s ConversionSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ConversionSource.
func (s ConversionSource) IsValid() bool {
	for _, candidate := range validConversionSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseConversionSource converts raw input into a ConversionSource.
func ParseConversionSource(value string) (ConversionSource, error) {
	for _, candidate := range validConversionSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid conversion source %q", value)
}
