package models

import "time"

// Group names recognized by the authorization gate. Any user outside both
// groups is a plain customer.
const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery Crew"
)

type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Role is a caller's effective access tier, derived per request from group
// membership. Manager wins wherever a user holds both groups.
type Role string

const (
	RoleManager      Role = "manager"
	RoleDeliveryCrew Role = "delivery_crew"
	RoleCustomer     Role = "customer"
)

// RoleSet holds the roles a caller carries for the current request.
type RoleSet struct {
	Manager      bool
	DeliveryCrew bool
}

// Primary resolves the single role used where checks are exclusive: Manager
// first, then Delivery Crew, else Customer.
func (rs RoleSet) Primary() Role {
	switch {
	case rs.Manager:
		return RoleManager
	case rs.DeliveryCrew:
		return RoleDeliveryCrew
	default:
		return RoleCustomer
	}
}

// RolesFromGroups derives a RoleSet from group records.
func RolesFromGroups(groups []Group) RoleSet {
	var rs RoleSet
	for _, g := range groups {
		switch g.Name {
		case GroupManager:
			rs.Manager = true
		case GroupDeliveryCrew:
			rs.DeliveryCrew = true
		}
	}
	return rs
}
