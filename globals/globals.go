package globals

import (
	"context"
	"os"
)

// JwtSecret signs and verifies bearer tokens minted by the account service.
var JwtSecret = []byte(jwtSecret())

func jwtSecret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "dev_only_secret"
}

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
