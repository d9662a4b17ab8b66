package main

import (
	"net/http"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relaxedbase/relaxedbase/client"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

var rootCmd = &cobra.Command{
	Use:   "relaxedcli",
	Short: "relaxedcli manages the records of a relaxedbase server",
	Long: "relaxedcli manages the records of a relaxedbase server.\n" +
		"Entity commands talk to the REST API; 'users' works directly on the configured database.",
	SilenceUsage: true,
}

var (
	serverURL  string
	login      string
	password   string
	configFile string
	output     string
)

// newStores returns the client stores for the configured server, logged in
// if credentials were given. Servers without a token issuer do not serve
// /api/authenticate; the credentials are then sent as HTTP Basic auth.
func newStores(cmd *cobra.Command) (*client.Stores, error) {
	c := client.New(serverURL)
	if login != "" {
		_, err := c.Authenticate(cmd.Context(), login, password, false)
		var apiErr *client.APIError
		switch {
		case err == nil:
		case errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusNotFound):
			log.WithField("status", apiErr.Status).Debug("token login unavailable, using basic auth")
			c.SetBasicAuth(login, password)
		default:
			return nil, err
		}
	}
	return client.NewStores(c), nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&serverURL, "server", "s", envOr("RELAXEDBASE_URL", "http://localhost:8080"), "the relaxedbase server")
	flags.StringVarP(&login, "user", "u", os.Getenv("RELAXEDBASE_USER"), "login used to authenticate")
	flags.StringVarP(&password, "password", "p", os.Getenv("RELAXEDBASE_PASSWORD"), "password used to authenticate")
	flags.StringVarP(&configFile, "config", "c", "", "the server config file, used by 'users'")
	flags.StringVarP(&output, "output", "o", "", "output format: table, yaml or json")

	rootCmd.AddCommand(
		entityCommand[model.Employee](
			"employees", "Manage employees",
			func(s *client.Stores) *client.Store[model.Employee] { return s.Employees },
		),
		entityCommand[model.VacationRequest](
			"vacation-requests", "Manage vacation requests",
			func(s *client.Stores) *client.Store[model.VacationRequest] { return s.VacationRequests },
		),
		entityCommand[model.SickLeave](
			"sick-leaves", "Manage sick leaves",
			func(s *client.Stores) *client.Store[model.SickLeave] { return s.SickLeaves },
		),
		entityCommand[model.Event](
			"events", "Manage events",
			func(s *client.Stores) *client.Store[model.Event] { return s.Events },
		),
		usersCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
