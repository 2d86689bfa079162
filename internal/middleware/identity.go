package middleware

// identity.go holds the shared identity helper for middleware that keys
// state per user (rate limiting).  JWTAuth stores the raw "sub" claim in
// the context under "user_id"; depending on how the token was decoded it
// may be a float64, an integer type or a string.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user's ID as a string for use
// in Redis keys.  Unauthenticated requests yield "anon".
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return strconv.FormatUint(uint64(v), 10)
    case uint64:
        return strconv.FormatUint(v, 10)
    case int64:
        return strconv.FormatInt(v, 10)
    case int:
        return strconv.Itoa(v)
    }
    return "anon"
}
