package domain

// Identity is the resolved caller of a service operation. The HTTP layer builds
// it from the session; services never look the session up themselves.
type Identity struct {
	UserID  uint64
	IsAdmin bool
}

func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

// RequireUser fails with ErrUnauthorized for an anonymous caller.
func (i Identity) RequireUser() error {
	if !i.Authenticated() {
		return ErrUnauthorized
	}
	return nil
}

// RequireAdmin fails with ErrUnauthorized for an anonymous caller and
// ErrForbidden for a signed-in non-admin.
func (i Identity) RequireAdmin() error {
	if err := i.RequireUser(); err != nil {
		return err
	}
	if !i.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// CanAccess reports whether the caller may touch a record owned by ownerID.
func (i Identity) CanAccess(ownerID uint64) bool {
	return i.IsAdmin || (i.Authenticated() && i.UserID == ownerID)
}
