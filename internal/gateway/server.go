package gateway

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vlquery/vlq/internal/logsql"
	"github.com/vlquery/vlq/internal/model"
)

// Server exposes the query facade over HTTP for local tooling. The envelope
// body is authoritative; the HTTP status code mirrors its failure class.
type Server struct {
	addr      string
	backend   string
	querier   logsql.Querier
	log       *logrus.Logger
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a gateway around the given querier. backend is the
// upstream base URL, reported by the health endpoint.
func NewServer(addr, backend string, querier logsql.Querier, log *logrus.Logger) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:    addr,
		backend: backend,
		querier: querier,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// router wires middleware and routes; Start and the handler tests share it.
func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/kinds", s.handleKinds)
	r.POST("/api/query", s.handleQuery)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.router(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.listener = listener
	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the bound listen address, useful with ":0" listeners.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// requestLogger tags every request with an id and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		c.Next()

		s.log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": id,
		}).Info("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"backend": s.backend,
	})
}

func (s *Server) handleKinds(c *gin.Context) {
	c.JSON(http.StatusOK, logsql.Endpoints())
}

// queryBody is the wire form of a query request; timestamps are RFC3339.
type queryBody struct {
	Kind   string    `json:"kind"`
	Query  string    `json:"query"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	At     time.Time `json:"time"`
	Step   string    `json:"step"`
	Field  string    `json:"field"`
	Limit  int       `json:"limit"`
	Tenant string    `json:"tenant"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var body queryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respond(c, model.Errorf(model.ErrClassValidation, "Invalid request body: %v", err))
		return
	}
	if body.Kind == "" {
		s.respond(c, model.Errorf(model.ErrClassValidation, "Kind parameter is required"))
		return
	}
	kind, err := model.ParseKind(body.Kind)
	if err != nil {
		s.respond(c, model.Errorf(model.ErrClassValidation, "%v", err))
		return
	}

	res := s.querier.Do(c.Request.Context(), model.QueryRequest{
		Kind:   kind,
		Query:  body.Query,
		Start:  body.Start,
		End:    body.End,
		At:     body.At,
		Step:   body.Step,
		Field:  body.Field,
		Limit:  body.Limit,
		Tenant: body.Tenant,
	})
	s.respond(c, res)
}

func (s *Server) respond(c *gin.Context, res *model.Result) {
	c.JSON(statusForResult(res), res)
}

// statusForResult maps an envelope onto an advisory HTTP status: caller
// mistakes are 400s, upstream failures 502s.
func statusForResult(res *model.Result) int {
	if res.OK() {
		return http.StatusOK
	}
	if res.Cause == model.ErrClassValidation {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
