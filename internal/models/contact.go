// Package models defines the database models for mirrored Odoo records.
package models

import "time"

// Contact is a local mirror of an Odoo res.partner record. Its lifecycle is
// derived entirely from the remote system: rows are created when a remote id
// is first seen, overwritten on every later sighting, and deleted once the
// id disappears upstream.
type Contact struct {
	ID        int64      `json:"id" db:"id"`
	RemoteID  int64      `json:"remote_id" db:"remote_id"`
	Name      string     `json:"name" db:"name"`
	Email     *string    `json:"email" db:"email"`
	Phone     *string    `json:"phone" db:"phone"`
	WriteDate *time.Time `json:"write_date" db:"write_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
