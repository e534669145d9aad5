package types

// PermissionLevel identifies the hierarchy level at which a permission
// check is evaluated.
type PermissionLevel string

const (
	PermissionLevelGlobal    PermissionLevel = "global"
	PermissionLevelCorporate PermissionLevel = "corporate"
	PermissionLevelProgram   PermissionLevel = "program"
)

// String returns the string representation of the level.
func (l PermissionLevel) String() string {
	return string(l)
}

// IsValid checks if the level is a recognized permission level.
func (l PermissionLevel) IsValid() bool {
	switch l {
	case PermissionLevelGlobal, PermissionLevelCorporate, PermissionLevelProgram:
		return true
	}
	return false
}

// OrganizationalScope is the (corporate client, program, location)
// coordinate at which a permission check applies. Empty fields mean the
// coordinate is unset; all fields empty denotes the global scope.
type OrganizationalScope struct {
	CorporateClientID string
	ProgramID         string
	LocationID        string
}

// GlobalScope is the scope with no organizational coordinates.
var GlobalScope = OrganizationalScope{}

// IsGlobal reports whether the scope carries no organizational coordinates.
func (s OrganizationalScope) IsGlobal() bool {
	return s.CorporateClientID == "" && s.ProgramID == "" && s.LocationID == ""
}

// Level returns the most specific permission level the scope addresses.
func (s OrganizationalScope) Level() PermissionLevel {
	switch {
	case s.ProgramID != "":
		return PermissionLevelProgram
	case s.CorporateClientID != "":
		return PermissionLevelCorporate
	default:
		return PermissionLevelGlobal
	}
}

// ScopeMode tags how a ScopeSet is to be interpreted by list-query filters.
type ScopeMode string

const (
	// ScopeModeExplicit means the IDs slice is the complete set of visible
	// entities. An empty slice is an explicit "nothing visible".
	ScopeModeExplicit ScopeMode = "explicit"

	// ScopeModeUnrestricted means no filter is applied for this dimension.
	ScopeModeUnrestricted ScopeMode = "unrestricted"

	// ScopeModeDeferToAssignment means visibility is not decided here: it
	// must be derived from the user's own program/location assignments by
	// the caller.
	ScopeModeDeferToAssignment ScopeMode = "defer_to_assignment"
)

// ScopeSet is one dimension of a DataAccessScope.
type ScopeSet struct {
	Mode ScopeMode `json:"mode"`
	IDs  []string  `json:"ids,omitempty"`
}

// ExplicitScope builds an explicit ScopeSet over the given IDs.
func ExplicitScope(ids ...string) ScopeSet {
	return ScopeSet{Mode: ScopeModeExplicit, IDs: ids}
}

// UnrestrictedScope builds a ScopeSet that applies no filter.
func UnrestrictedScope() ScopeSet {
	return ScopeSet{Mode: ScopeModeUnrestricted}
}

// DeferredScope builds a ScopeSet whose members come from the user's own
// assignment records, resolved upstream.
func DeferredScope() ScopeSet {
	return ScopeSet{Mode: ScopeModeDeferToAssignment}
}

// Contains reports whether the set admits the given id. Unrestricted sets
// admit everything; deferred sets admit nothing here (the caller must
// consult assignments instead).
func (s ScopeSet) Contains(id string) bool {
	switch s.Mode {
	case ScopeModeUnrestricted:
		return true
	case ScopeModeExplicit:
		for _, v := range s.IDs {
			if v == id {
				return true
			}
		}
	}
	return false
}

// DataAccessScope describes which corporate clients, programs and
// locations a principal may see. It is recomputed per request and never
// cached, so role changes take effect immediately.
type DataAccessScope struct {
	CorporateClients ScopeSet `json:"corporateClients"`
	Programs         ScopeSet `json:"programs"`
	Locations        ScopeSet `json:"locations"`
}
