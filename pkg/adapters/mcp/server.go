package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/CodeQwQ/ucflow/internal/presentation/graph"
	"github.com/CodeQwQ/ucflow/internal/validator"
	"github.com/CodeQwQ/ucflow/pkg/export"
	"github.com/CodeQwQ/ucflow/pkg/ports"
	"github.com/CodeQwQ/ucflow/pkg/transform"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	resultsURI      = "ucflow://results"
	resultURIPrefix = resultsURI + "/"
)

// TransformArgs are the arguments of the transform_use_case tool.
type TransformArgs struct {
	UseCase string `json:"use_case"`
	Name    string `json:"name"`
	Mode    string `json:"mode"`
}

// TransformResponse is the structured result of transform_use_case.
type TransformResponse struct {
	ID       string           `json:"id,omitempty" jsonschema_description:"Id of the stored result, when a store is configured"`
	Document *export.Document `json:"document" jsonschema_description:"The activity diagram"`
	Mermaid  string           `json:"mermaid" jsonschema_description:"The diagram as a Mermaid flowchart"`
}

// ValidateArgs are the arguments of the validate_use_case tool.
type ValidateArgs struct {
	UseCase string `json:"use_case"`
	Name    string `json:"name"`
}

// ValidateResponse is the structured result of validate_use_case.
type ValidateResponse struct {
	Valid    bool     `json:"valid" jsonschema_description:"True when the use case transforms without errors"`
	Errors   []string `json:"errors,omitempty" jsonschema_description:"Validation or transformation errors"`
	Warnings []string `json:"warnings,omitempty" jsonschema_description:"Diagram shape warnings"`
}

// Server exposes ucflow transformations as an MCP server.
type Server struct {
	store         ports.ResultStore
	loader        ports.UseCaseLoader
	transformOpts []transform.Option
	logger        *slog.Logger
	version       string
	mcpServer     *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLoader lets tools address use cases by name.
func WithLoader(loader ports.UseCaseLoader) Option {
	return func(s *Server) { s.loader = loader }
}

// WithTransformOptions are applied to every engine the server builds.
func WithTransformOptions(opts ...transform.Option) Option {
	return func(s *Server) { s.transformOpts = append(s.transformOpts, opts...) }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithVersion sets the version reported to clients.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates a new MCP Server instance. store may be nil, in which case
// results are not persisted and the results resources are empty.
func NewServer(store ports.ResultStore, opts ...Option) *Server {
	s := &Server{
		store:   store,
		logger:  slog.Default(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("ucflow-mcp", strings.TrimSpace(s.version))
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: transform_use_case
	transformTool := mcp.NewTool("transform_use_case",
		mcp.WithDescription("Transform a use case into an activity diagram. Pass the use case as YAML or JSON text, or the name of a loaded use case."),
		mcp.WithString("use_case", mcp.Description("Use case document (YAML or JSON)")),
		mcp.WithString("name", mcp.Description("Name of a use case known to the server (used when use_case is empty)")),
		mcp.WithString("mode", mcp.Description("detailed (default) or overview"), mcp.Enum("detailed", "overview")),
		mcp.WithOutputSchema[TransformResponse](),
	)
	s.mcpServer.AddTool(transformTool, mcp.NewStructuredToolHandler(s.handleTransform))

	// TOOL: validate_use_case
	validateTool := mcp.NewTool("validate_use_case",
		mcp.WithDescription("Check a use case for errors and report diagram warnings without storing anything."),
		mcp.WithString("use_case", mcp.Description("Use case document (YAML or JSON)")),
		mcp.WithString("name", mcp.Description("Name of a use case known to the server (used when use_case is empty)")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_use_cases
	s.mcpServer.AddTool(mcp.NewTool("list_use_cases",
		mcp.WithDescription("List the names of the use cases known to the server."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if s.loader == nil {
			return mcp.NewToolResultError("no use case loader configured"), nil
		}
		names, err := s.loader.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) resolve(ctx context.Context, text, name string) (*usecase.UseCase, error) {
	if strings.TrimSpace(text) != "" {
		return usecase.Parse([]byte(text))
	}
	if name == "" {
		return nil, errors.New("either use_case or name is required")
	}
	if s.loader == nil {
		return nil, errors.New("no use case loader configured")
	}
	return s.loader.Load(ctx, name)
}

func (s *Server) handleTransform(ctx context.Context, request mcp.CallToolRequest, args TransformArgs) (TransformResponse, error) {
	mode, err := transform.ParseMode(args.Mode)
	if err != nil {
		return TransformResponse{}, err
	}
	uc, err := s.resolve(ctx, args.UseCase, args.Name)
	if err != nil {
		return TransformResponse{}, err
	}

	engine := transform.New(slices.Concat(s.transformOpts, []transform.Option{transform.WithMode(mode), transform.WithLogger(s.logger)})...)
	g, err := engine.Transform(uc)
	if err != nil {
		return TransformResponse{}, fmt.Errorf("transform failed: %w", err)
	}

	doc := export.FromGraph(g, mode.String())
	resp := TransformResponse{Document: doc, Mermaid: graph.GenerateMermaid(doc, nil)}
	if s.store != nil {
		resp.ID = uuid.NewString()
		if err := s.store.Save(ctx, resp.ID, doc); err != nil {
			return TransformResponse{}, fmt.Errorf("failed to store result: %w", err)
		}
	}
	s.logger.Debug("MCP transform", "usecase", uc.Name, "mode", mode, "id", resp.ID)
	return resp, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (ValidateResponse, error) {
	uc, err := s.resolve(ctx, args.UseCase, args.Name)
	if err != nil {
		return ValidateResponse{Errors: []string{err.Error()}}, nil
	}

	g, err := transform.New(slices.Concat(s.transformOpts, []transform.Option{transform.WithLogger(s.logger)})...).Transform(uc)
	if err != nil {
		resp := ValidateResponse{}
		if errs := usecase.ValidationErrors(err); len(errs) > 0 {
			for _, e := range errs {
				resp.Errors = append(resp.Errors, e.Error())
			}
		} else {
			resp.Errors = []string{err.Error()}
		}
		return resp, nil
	}

	report := validator.Validate(export.FromGraph(g, transform.Detailed.String()))
	resp := ValidateResponse{Valid: report.OK()}
	for _, issue := range report.Errors {
		resp.Errors = append(resp.Errors, issue.String())
	}
	for _, issue := range report.Warnings {
		resp.Warnings = append(resp.Warnings, issue.String())
	}
	return resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: ucflow://results
	s.mcpServer.AddResource(mcp.NewResource(resultsURI, "Stored activity diagrams",
		mcp.WithMIMEType("application/json"),
	), s.readResults)

	// EXPOSE: ucflow://results/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(resultURIPrefix+"{id}", "Stored activity diagram",
		mcp.WithTemplateMIMEType("application/json"),
	), s.readResult)
}

func (s *Server) readResults(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids := []string{}
	if s.store != nil {
		listed, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list results: %w", err)
		}
		ids = append(ids, listed...)
	}
	jsonBytes, _ := json.Marshal(ids)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      resultsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readResult(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if s.store == nil {
		return nil, ports.ErrResultNotFound
	}
	id := strings.TrimPrefix(request.Params.URI, resultURIPrefix)
	doc, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	jsonBytes, err := doc.MarshalIndent()
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
