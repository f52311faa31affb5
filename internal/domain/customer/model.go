package customer

import "time"

// Mapping links a storefront email address to a gateway customer
type Mapping struct {
	CustomerID       int       `db:"customer_id" json:"customer_id"`
	Email            string    `db:"email" json:"email"`
	MollieCustomerID string    `db:"mollie_customer_id" json:"mollie_customer_id"`
	DateCreated      time.Time `db:"date_created" json:"date_created"`
}
