package restapi

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

func alertHeader(appName, kind string) string {
	return "X-" + appName + "-" + kind
}

func setAlert(c *fiber.Ctx, appName, message, param string) {
	c.Set(alertHeader(appName, "alert"), message)
	c.Set(alertHeader(appName, "params"), url.QueryEscape(param))
}

func setFailureAlert(c *fiber.Ctx, appName, entityName, errorKey string) {
	c.Set(alertHeader(appName, "error"), "error."+errorKey)
	c.Set(alertHeader(appName, "params"), entityName)
}

func setCreationAlert(c *fiber.Ctx, appName, entityName, id string) {
	setAlert(c, appName, fmt.Sprintf("A new %s is created with identifier %s", entityName, id), id)
}

func setUpdateAlert(c *fiber.Ctx, appName, entityName, id string) {
	setAlert(c, appName, fmt.Sprintf("A %s is updated with identifier %s", entityName, id), id)
}

func setDeletionAlert(c *fiber.Ctx, appName, entityName, id string) {
	setAlert(c, appName, fmt.Sprintf("A %s is deleted with identifier %s", entityName, id), id)
}
