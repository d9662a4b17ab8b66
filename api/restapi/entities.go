package restapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

func registerEmployees(r fiber.Router, storages model.Backends, appName string, middlewares ...fiber.Handler) {
	res := &resource[model.Employee, *model.Employee]{
		path:        "employees",
		displayName: "Employee",
		store:       storages.Employees,
		appName:     appName,
		audits:      storages.Audits,
	}
	res.register(r, middlewares...)
}

func registerVacationRequests(
	r fiber.Router, storages model.Backends, appName string, middlewares ...fiber.Handler,
) {
	res := &resource[model.VacationRequest, *model.VacationRequest]{
		path:        "vacation-requests",
		displayName: "VacationRequest",
		store:       storages.VacationRequests,
		owned:       storages.VacationRequests,
		appName:     appName,
		audits:      storages.Audits,
	}
	res.register(r, middlewares...)
}

func registerSickLeaves(r fiber.Router, storages model.Backends, appName string, middlewares ...fiber.Handler) {
	res := &resource[model.SickLeave, *model.SickLeave]{
		path:        "sick-leaves",
		displayName: "SickLeave",
		store:       storages.SickLeaves,
		owned:       storages.SickLeaves,
		appName:     appName,
		audits:      storages.Audits,
	}
	res.register(r, middlewares...)
}

func registerEvents(r fiber.Router, storages model.Backends, appName string, middlewares ...fiber.Handler) {
	res := &resource[model.Event, *model.Event]{
		path:        "events",
		displayName: "Event",
		store:       storages.Events,
		appName:     appName,
		audits:      storages.Audits,
	}
	res.register(r, middlewares...)
}
