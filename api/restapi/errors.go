package restapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	problemBaseURL     = "https://www.jhipster.tech/problem"
	problemWithMessage = problemBaseURL + "/problem-with-message"
	mimeProblemJSON    = "application/problem+json"
)

// Error keys of BadRequestAlert
const (
	ErrorKeyIDExists    = "idexists"
	ErrorKeyIDNull      = "idnull"
	ErrorKeySortInvalid = "sortinvalid"
	ErrorKeyPageInvalid = "pageinvalid"
	ErrorKeyUserExists  = "userexists"
	ErrorKeyBodyInvalid = "bodyinvalid"
)

// BadRequestAlert is returned by handlers for requests that are rejected
// before reaching the storage. It is rendered as a 400 problem response with
// error alert headers.
type BadRequestAlert struct {
	Title      string
	EntityName string
	ErrorKey   string
}

// Error implements the error interface
func (e BadRequestAlert) Error() string {
	return e.Title
}

// Problem is the JSON body of error responses
type Problem struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail,omitempty"`
	EntityName string `json:"entityName,omitempty"`
	ErrorKey   string `json:"errorKey,omitempty"`
	Message    string `json:"message,omitempty"`
	Params     string `json:"params,omitempty"`
}

func sendProblem(c *fiber.Ctx, p Problem) error {
	if err := c.Status(p.Status).JSON(p); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, mimeProblemJSON)
	return nil
}

// ErrorHandler returns the fiber.ErrorHandler rendering handler errors as
// problem responses. Unexpected errors are logged and answered with 500.
func ErrorHandler(appName string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var alert BadRequestAlert
		if errors.As(err, &alert) {
			setFailureAlert(c, appName, alert.EntityName, alert.ErrorKey)
			return sendProblem(
				c, Problem{
					Type:       problemWithMessage,
					Title:      alert.Title,
					Status:     fiber.StatusBadRequest,
					EntityName: alert.EntityName,
					ErrorKey:   alert.ErrorKey,
					Message:    "error." + alert.ErrorKey,
					Params:     alert.EntityName,
				},
			)
		}
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return sendProblem(
				c, Problem{
					Type:    problemWithMessage,
					Title:   fe.Message,
					Status:  fe.Code,
					Message: "error.http." + strconv.Itoa(fe.Code),
				},
			)
		}
		log.WithError(err).WithFields(
			log.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			},
		).Error("request failed")
		return sendProblem(
			c, Problem{
				Type:    problemWithMessage,
				Title:   "Internal Server Error",
				Status:  fiber.StatusInternalServerError,
				Message: "error.http.500",
			},
		)
	}
}
