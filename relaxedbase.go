package relaxedbase

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"

	"github.com/relaxedbase/relaxedbase/api/restapi"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

// FiberServerConfig is the fiber.Config that is used to init the http fiber.App
var FiberServerConfig = fiber.Config{
	ReadTimeout:    3 * time.Second,
	WriteTimeout:   20 * time.Second,
	IdleTimeout:    150 * time.Second,
	ReadBufferSize: 8192,
	Network:        "tcp",
}

// Server serves the REST API and the management endpoints
type Server struct {
	server     *fiber.App
	serverConf ServerConf
}

// ServerOptions holds the optional parts of a Server
type ServerOptions struct {
	// API configures the REST API; nil uses the defaults of restapi.Register
	API *restapi.Options
	// AccessLog receives the access log; nil disables it
	AccessLog io.Writer
}

// NewServer creates a new Server for the passed storages
func NewServer(serverConf ServerConf, storages model.Backends, opts ServerOptions) (*Server, error) {
	conf := FiberServerConfig
	if tps := serverConf.TrustedProxies; len(tps) > 0 {
		conf.TrustedProxies = serverConf.TrustedProxies
		conf.EnableTrustedProxyCheck = true
	}
	conf.ProxyHeader = serverConf.ForwardedIPHeader
	appName := restapi.DefaultAppName
	if opts.API != nil && opts.API.AppName != "" {
		appName = opts.API.AppName
	}
	conf.AppName = appName
	conf.ErrorHandler = restapi.ErrorHandler(appName)

	server := fiber.New(conf)
	server.Use(recover.New())
	server.Use(compress.New())
	if opts.AccessLog != nil {
		server.Use(logger.New(logger.Config{Output: opts.AccessLog}))
	}
	server.Use(requestid.New())

	if err := restapi.Register(server.Group("/api"), storages, opts.API); err != nil {
		return nil, err
	}
	restapi.RegisterManagement(server.Group("/management"), storages, opts.API)
	return &Server{
		server:     server,
		serverConf: serverConf,
	}, nil
}

// App returns the underlying fiber.App
func (s Server) App() *fiber.App {
	return s.server
}

// HttpHandlerFunc returns an http.HandlerFunc for serving all the necessary endpoints
func (s Server) HttpHandlerFunc() http.HandlerFunc {
	return adaptor.FiberApp(s.server)
}

// Listen starts an http server at the specific address for serving all the
// necessary endpoints
func (s Server) Listen(addr string) error {
	return s.server.Listen(addr)
}

// Shutdown gracefully stops the server
func (s Server) Shutdown() error {
	return s.server.Shutdown()
}

// Start starts the server as configured and blocks; it exits the program
// if the server stops with an error
func (s Server) Start() {
	conf := s.serverConf
	addr := fmt.Sprintf("%s:%d", conf.IPListen, conf.Port)
	if !conf.TLS.Enabled {
		log.WithField("port", conf.Port).Info("TLS is disabled starting http server")
		if err := s.server.Listen(addr); err != nil {
			log.WithError(err).Fatal()
		}
		return
	}
	// TLS enabled
	if conf.TLS.RedirectHTTP {
		httpServer := fiber.New(FiberServerConfig)
		httpServer.All(
			"*", func(ctx *fiber.Ctx) error {
				//goland:noinspection HttpUrlsUsage
				return ctx.Redirect(
					strings.Replace(ctx.Request().URI().String(), "http://", "https://", 1),
					fiber.StatusPermanentRedirect,
				)
			},
		)
		log.Info("TLS and http redirect enabled, starting redirect server on port 80")
		go func() {
			log.WithError(httpServer.Listen(fmt.Sprintf("%s:80", conf.IPListen))).Fatal()
		}()
	}
	log.WithField("port", conf.Port).Info("TLS enabled, starting https server")
	if err := s.server.ListenTLS(addr, conf.TLS.Cert, conf.TLS.Key); err != nil {
		log.WithError(err).Fatal()
	}
}
