package enums

import "fmt"

// MetricEntityType keys the daily ad_metrics rows by hierarchy level.
type MetricEntityType string

const (
	MetricEntityAd       MetricEntityType = "ad"
	MetricEntityAdSet    MetricEntityType = "adset"
	MetricEntityCampaign MetricEntityType = "campaign"
)

var validMetricEntityTypes = []MetricEntityType{
	MetricEntityAd,
	MetricEntityAdSet,
	MetricEntityCampaign,
}

// String implements fmt.Stringer.
func (t MetricEntityType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known MetricEntityType.
func (t MetricEntityType) IsValid() bool {
	for _, candidate := range validMetricEntityTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseMetricEntityType converts raw input into a MetricEntityType.
func ParseMetricEntityType(value string) (MetricEntityType, error) {
	for _, candidate := range validMetricEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metric entity type %q", value)
}
