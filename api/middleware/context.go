package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const identityKey = "ledgerlite.identity"

// Identity is the authenticated caller as established by RequireAuth. OwnerID
// scoping in the handlers and the role guard both read from it.
type Identity struct {
	UserID    uuid.UUID
	Role      string
	SessionID uuid.UUID
}

func SetIdentity(c echo.Context, identity Identity) {
	c.Set(identityKey, identity)
}

func IdentityFrom(c echo.Context) (Identity, bool) {
	identity, ok := c.Get(identityKey).(Identity)
	return identity, ok
}
