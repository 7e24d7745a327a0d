package datasharing

import "strings"

// Attribute is a data-sharing attribute. Exactly one of Shared, Private,
// Firstprivate or Auto is set, optionally together with Implicit. The zero
// value is Unset.
type Attribute uint8

const (
	Unset        Attribute = 0
	Shared       Attribute = 1 << 0
	Private      Attribute = 1 << 1
	Firstprivate Attribute = 1 << 2
	Auto         Attribute = 1 << 3
	// Implicit marks an attribute that was inferred rather than written by
	// the user.
	Implicit Attribute = 1 << 4
)

// Kind strips the Implicit flag.
func (a Attribute) Kind() Attribute { return a &^ Implicit }

// IsImplicit reports whether the attribute was inferred.
func (a Attribute) IsImplicit() bool { return a&Implicit != 0 }

// IsExplicit reports whether the attribute was written by the user.
func (a Attribute) IsExplicit() bool { return a.Kind() != Unset && !a.IsImplicit() }

func (a Attribute) String() string {
	var name string
	switch a.Kind() {
	case Unset:
		return "undefined"
	case Shared:
		name = "shared"
	case Private:
		name = "private"
	case Firstprivate:
		name = "firstprivate"
	case Auto:
		name = "auto"
	default:
		var parts []string
		for _, k := range []Attribute{Shared, Private, Firstprivate, Auto} {
			if a&k != 0 {
				parts = append(parts, k.String())
			}
		}
		name = strings.Join(parts, "|")
	}
	if a.IsImplicit() {
		return name + " (implicit)"
	}
	return name
}

// MarshalText renders the attribute in reports.
func (a Attribute) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Default is the value of a `default` clause.
type Default int

const (
	// DefaultUnspecified means no `default` clause was given.
	DefaultUnspecified Default = iota
	DefaultShared
	DefaultNone
	DefaultFirstprivate
	DefaultAuto
)

// ParseDefault maps a `default` clause argument to a Default.
func ParseDefault(s string) (Default, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shared":
		return DefaultShared, true
	case "none":
		return DefaultNone, true
	case "firstprivate":
		return DefaultFirstprivate, true
	case "auto":
		return DefaultAuto, true
	}
	return DefaultUnspecified, false
}

func (d Default) String() string {
	switch d {
	case DefaultShared:
		return "shared"
	case DefaultNone:
		return "none"
	case DefaultFirstprivate:
		return "firstprivate"
	case DefaultAuto:
		return "auto"
	default:
		return "unspecified"
	}
}

// Attribute returns the attribute the default gives to a symbol, or Unset
// for DefaultNone and DefaultUnspecified.
func (d Default) Attribute() Attribute {
	switch d {
	case DefaultShared:
		return Shared
	case DefaultFirstprivate:
		return Firstprivate
	case DefaultAuto:
		return Auto
	}
	return Unset
}
