package enums

import "fmt"

// AdPlatform represents the canonical ad_platform enum in Postgres.
type AdPlatform string

const (
	AdPlatformFacebook AdPlatform = "facebook"
	AdPlatformGoogle   AdPlatform = "google"
	AdPlatformTikTok   AdPlatform = "tiktok"
)

var validAdPlatforms = []AdPlatform{
	AdPlatformFacebook,
	AdPlatformGoogle,
	AdPlatformTikTok,
}

// AllAdPlatforms returns every supported platform in a stable order.
func AllAdPlatforms() []AdPlatform {
	out := make([]AdPlatform, len(validAdPlatforms))
	copy(out, validAdPlatforms)
	return out
}

// String implements fmt.Stringer.
func (p AdPlatform) String() string {
	return string(p)
}

// IsValid reports whether the value is a known AdPlatform.
func (p AdPlatform) IsValid() bool {
	for _, candidate := range validAdPlatforms {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseAdPlatform converts raw input into an AdPlatform.
func ParseAdPlatform(value string) (AdPlatform, error) {
	for _, candidate := range validAdPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ad platform %q", value)
}

// AdAccountStatus captures the connector lifecycle for a linked account.
type AdAccountStatus string

const (
	AdAccountStatusActive       AdAccountStatus = "active"
	AdAccountStatusPaused       AdAccountStatus = "paused"
	AdAccountStatusDisconnected AdAccountStatus = "disconnected"
)

var validAdAccountStatuses = []AdAccountStatus{
	AdAccountStatusActive,
	AdAccountStatusPaused,
	AdAccountStatusDisconnected,
}

// IsValid reports whether the value is a known AdAccountStatus.
func (s AdAccountStatus) IsValid() bool {
	for _, candidate := range validAdAccountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
