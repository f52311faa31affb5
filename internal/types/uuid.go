package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex mpay_01HZX3J0Q3S5B8W5C9K2T4M7NR
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	UUID_PREFIX_MOLLIE_PAYMENT       = "mpay"
	UUID_PREFIX_SUBSCRIPTION_PAYMENT = "msubpay"
	UUID_PREFIX_REFUND               = "mref"
	UUID_PREFIX_SESSION              = "sess"
	UUID_PREFIX_TX                   = "tx"
)
