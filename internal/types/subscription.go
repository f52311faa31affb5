package types

// SubscriptionFrequency is the recurring unit configured on a storefront subscription plan
type SubscriptionFrequency string

const (
	SubscriptionFrequencyDay       SubscriptionFrequency = "day"
	SubscriptionFrequencyWeek      SubscriptionFrequency = "week"
	SubscriptionFrequencySemiMonth SubscriptionFrequency = "semi_month"
	SubscriptionFrequencyMonth     SubscriptionFrequency = "month"
	SubscriptionFrequencyYear      SubscriptionFrequency = "year"
)

// DateFormat is the calendar date layout the gateway expects
const DateFormat = "2006-01-02"
