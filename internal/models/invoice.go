package models

import "time"

// Invoice is a local mirror of an Odoo account.move record restricted to the
// out_invoice move type. Partner and currency are many2one references
// upstream and are stored decomposed into id and label columns.
type Invoice struct {
	ID             int64      `json:"id" db:"id"`
	RemoteID       int64      `json:"remote_id" db:"remote_id"`
	Name           string     `json:"name" db:"name"`
	MoveType       string     `json:"move_type" db:"move_type"`
	InvoiceDate    *time.Time `json:"invoice_date" db:"invoice_date"`
	PartnerID      *int64     `json:"partner_id" db:"partner_id"`
	PartnerName    *string    `json:"partner_name" db:"partner_name"`
	AmountTotal    *float64   `json:"amount_total" db:"amount_total"`
	AmountResidual *float64   `json:"amount_residual" db:"amount_residual"`
	State          *string    `json:"state" db:"state"`
	CurrencyID     *int64     `json:"currency_id" db:"currency_id"`
	CurrencyName   *string    `json:"currency_name" db:"currency_name"`
	WriteDate      *time.Time `json:"write_date" db:"write_date"`
	CreateDate     *time.Time `json:"create_date" db:"create_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
