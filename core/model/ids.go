// Package model holds the in-memory symbol model for one analyzed library
// version: interned type names, and the Type/Field/Method records that
// reference each other by integer handle rather than by pointer.
package model

// TypeID identifies a Type within a single Version's interner. IDs are
// never shared across versions; cross-version identity is by name.
type TypeID int32

// NoType is the sentinel for an absent type reference (e.g. a constructor's
// return slot, or a class with no super-class).
const NoType TypeID = -1

// MethodID identifies a Method within a single Version.
type MethodID int32

// FieldID identifies a Field within the owning Type's Fields slice. It is
// always interpreted together with the owning TypeID.
type FieldID int32
