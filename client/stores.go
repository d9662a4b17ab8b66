package client

import (
	"github.com/relaxedbase/relaxedbase/storage/model"
)

// Stores bundles the Store of every entity
type Stores struct {
	Employees        *Store[model.Employee]
	VacationRequests *Store[model.VacationRequest]
	SickLeaves       *Store[model.SickLeave]
	Events           *Store[model.Event]
}

// NewStores returns Stores talking to the server behind c
func NewStores(c *Client) *Stores {
	return &Stores{
		Employees:        NewStore[model.Employee](NewResource[model.Employee](c, "employees")),
		VacationRequests: NewStore[model.VacationRequest](NewResource[model.VacationRequest](c, "vacation-requests")),
		SickLeaves:       NewStore[model.SickLeave](NewResource[model.SickLeave](c, "sick-leaves")),
		Events:           NewStore[model.Event](NewResource[model.Event](c, "events")),
	}
}
