package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Scope selects which company-owned records a listing returns.
type Scope int

const (
	// ScopePublic returns active, non-expired records of every owner.
	ScopePublic Scope = iota
	// ScopeCompany returns every record owned by one company.
	ScopeCompany
	// ScopeHouse returns every record without an owner.
	ScopeHouse
)

// Visibility is the resolved listing scope of a request.
type Visibility struct {
	Scope     Scope
	CompanyID primitive.ObjectID
}
