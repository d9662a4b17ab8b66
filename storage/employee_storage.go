package storage

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

// employeeReferences lists every foreign key column pointing at an employee
var employeeReferences = []struct {
	model  any
	column string
}{
	{&model.VacationRequest{}, "applicant_id"},
	{&model.VacationRequest{}, "stand_in_id"},
	{&model.SickLeave{}, "employee_id"},
	{&model.Event{}, "participant_id"},
	{&model.Event{}, "host_id"},
	{&model.Employee{}, "position_id"},
}

// orphanEmployeeReferences sets all foreign keys pointing at the employee to
// NULL, so the employee row can be deleted without touching other records.
func orphanEmployeeReferences(tx *gorm.DB, id int64) error {
	for _, ref := range employeeReferences {
		if err := tx.Model(ref.model).Where(ref.column+" = ?", id).Update(ref.column, nil).Error; err != nil {
			return errors.Wrapf(err, "failed to clear %s references to employee %d", ref.column, id)
		}
	}
	return nil
}

// attachEmployeeCollections loads the vacation requests (as stand-in), sick
// leaves and hosted events of the employees with one query per collection.
// The attached records carry no employee references.
func attachEmployeeCollections(tx *gorm.DB, employees []model.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	ids := make([]int64, len(employees))
	index := make(map[int64]int, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
		index[e.ID] = i
	}

	var vacationRequests []model.VacationRequest
	if err := tx.Where("stand_in_id IN ?", ids).Order("id").Find(&vacationRequests).Error; err != nil {
		return errors.Wrap(err, "failed to load vacation requests of employees")
	}
	for _, v := range vacationRequests {
		i := index[*v.StandInID]
		employees[i].VacationRequests = append(employees[i].VacationRequests, v)
	}

	var sickLeaves []model.SickLeave
	if err := tx.Where("employee_id IN ?", ids).Order("id").Find(&sickLeaves).Error; err != nil {
		return errors.Wrap(err, "failed to load sick leaves of employees")
	}
	for _, s := range sickLeaves {
		i := index[*s.EmployeeID]
		employees[i].SickLeaves = append(employees[i].SickLeaves, s)
	}

	var events []model.Event
	if err := tx.Where("host_id IN ?", ids).Order("id").Find(&events).Error; err != nil {
		return errors.Wrap(err, "failed to load events of employees")
	}
	for _, e := range events {
		i := index[*e.HostID]
		employees[i].Events = append(employees[i].Events, e)
	}
	return nil
}
