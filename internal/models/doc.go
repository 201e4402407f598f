// Package models defines the data model shared by the MealStack CLI client.
//
// The backend owns these entities; the client holds read copies obtained from
// the REST API plus the locally persisted [Session].
package models
