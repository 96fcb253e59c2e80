package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

const (
	apiKeyEnv     = "ARENA_MCP_API_KEY"
	serverName    = "arena-stats-mcp"
	serverVersion = "0.3.0"
)

var (
	serveAddr        string
	servePath        string
	serveTransport   string
	serveRequireAuth bool
	serveAuthHeader  string
)

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over streamable HTTP or stdio",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&servePath, "path", "/mcp", "HTTP path for MCP endpoint")
	cmd.Flags().StringVar(&serveTransport, "transport", "http", "transport: http or stdio")
	cmd.Flags().BoolVar(&serveRequireAuth, "require-auth", true, "require API key auth via "+apiKeyEnv+" (http only)")
	cmd.Flags().StringVar(&serveAuthHeader, "auth-header", "X-API-Key", "HTTP header to read API key from")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "path", &servePath, fileCfg.Server.Path)
	applyStringConfig(cmd, "transport", &serveTransport, fileCfg.Server.Transport)

	d, closeDeps, err := openDeps(true)
	if err != nil {
		return err
	}
	defer closeDeps()

	server, registry := newMCPServer(d)

	switch strings.ToLower(serveTransport) {
	case "stdio":
		log.Printf("MCP stdio server started (%d tools)", len(registry))
		return server.Run(cmd.Context(), &mcp.StdioTransport{})
	case "http":
	default:
		return fmt.Errorf("unknown transport %q (want http or stdio)", serveTransport)
	}

	apiKey := strings.TrimSpace(os.Getenv(apiKeyEnv))
	if serveRequireAuth && apiKey == "" {
		return fmt.Errorf("%s is required (set env var or run with --require-auth=false)", apiKeyEnv)
	}

	mux := newHTTPMux(server, registry, servePath, apiKey, serveAuthHeader)
	log.Printf("MCP HTTP server listening on %s%s", serveAddr, servePath)
	return http.ListenAndServe(serveAddr, mux)
}

func newHTTPMux(server *mcp.Server, registry []toolInfo, mcpPath, apiKey, authHeader string) *http.ServeMux {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	withAuth := authMiddleware(apiKey, authHeader)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	mux.HandleFunc("/tools", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		_, _ = w.Write(b)
	}))
	mux.HandleFunc(mcpPath, withAuth(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	return mux
}

// authMiddleware accepts the key in authHeader or as a bearer token. An
// empty apiKey disables the check.
func authMiddleware(apiKey, authHeader string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(authHeader))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next(w, r)
		}
	}
}

func newMCPServer(d Deps) (*mcp.Server, []toolInfo) {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		nil,
	)

	registry := make([]toolInfo, 0, 12)

	addTool(server, &registry, &mcp.Tool{
		Name:        "usage_ranking",
		Description: "Species ranked by average monthly usage over a date range (present in at least half the months)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args UsageRankingArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildUsageRanking(ctx, d, args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "teammate_recommendations",
		Description: "Teammates commonly paired with the given team, averaged across members and filtered by usage threshold",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeammateArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildTeammateRecommendations(ctx, d, args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "setup_recommendations",
		Description: "Most used abilities, items, moves, tera types and EV spreads of a species",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SpeciesQueryArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildSetupRecommendations(ctx, d, args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "counter_matchups",
		Description: "Strongest counters and most favorable matchups of a species in the latest month",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SpeciesQueryArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildCounterMatchups(ctx, d, args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "format_viability",
		Description: "S/A/B/C tier of a species in every format it appears in, with distribution and best/worst formats",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ViabilityArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildFormatViability(ctx, d, args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "build_stats",
		Description: "Level 50 stats of a species for a nature and EV spread",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args BuildStatsArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildBuildStats(ctx, d, args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "allocate_ev",
		Description: "Set one stat's EVs, clamped to the 510 total budget",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AllocateEVArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildAllocateEV(args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "type_effectiveness",
		Description: "Damage multiplier of an attacking type against one or two defending types",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TypeEffectivenessArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildTypeEffectiveness(args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "team_coverage",
		Description: "Best offensive and defensive multiplier of a team against each of the 18 types",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamCoverageArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildTeamCoverage(ctx, d, args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "team_compare",
		Description: "Averaged stats of two teams with per-stat differences and physical/special advantage",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamCompareArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildTeamCompare(ctx, d, args)))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "formats",
		Description: "Generations, formats, ratings and months available in the database",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FormatsArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshalOutput(buildFormats(ctx, d)))
	})

	return server, registry
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func marshalOutput(v any, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(res), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
