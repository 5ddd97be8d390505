package handlers

import (
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext retrieves the authenticated Firebase UID set by the
// auth middleware
func getUserIDFromContext(c echo.Context) string {
	uid, _ := c.Get("firebaseUID").(string)
	return uid
}

func getEmailFromContext(c echo.Context) string {
	email, _ := c.Get("email").(string)
	return email
}

func getNameFromContext(c echo.Context) string {
	name, _ := c.Get("name").(string)
	return name
}
