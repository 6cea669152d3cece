package ports

// UserRecord is the persisted representation of a user, distinct from the
// in-memory aggregate. Granted roles live as child rows keyed by username;
// they are only ever added through the parent record, and duplicate grants
// are silently deduped.
type UserRecord struct {
	ID       int64
	Username string
	Password string
	Name     string
	Email    *string
	Enabled  bool

	authorities []AuthorityRow
}

// AuthorityRow is one granted role, linked to its owning user by username.
type AuthorityRow struct {
	ID        int64
	Username  string
	Authority string
}

// AddRoles grants each role to the record, skipping roles already present.
func (r *UserRecord) AddRoles(roles []string) {
	for _, role := range roles {
		r.addRole(role)
	}
}

func (r *UserRecord) addRole(role string) {
	for _, a := range r.authorities {
		if a.Authority == role {
			return
		}
	}
	r.authorities = append(r.authorities, AuthorityRow{Username: r.Username, Authority: role})
}

// Authorities returns a copy of the child rows; the collection itself cannot
// be modified from outside the record.
func (r *UserRecord) Authorities() []AuthorityRow {
	out := make([]AuthorityRow, len(r.authorities))
	copy(out, r.authorities)
	return out
}
