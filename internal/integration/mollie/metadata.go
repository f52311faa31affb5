package mollie

import "github.com/spf13/cast"

// MetadataInt reads an integer stored in metadata; the gateway echoes numbers as JSON
// numbers or strings depending on how they were sent
func MetadataInt(m Metadata, key string) int {
	if m == nil {
		return 0
	}
	return cast.ToInt(m[key])
}
