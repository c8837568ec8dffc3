package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"strings"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/MarcusAnderfelt/worlds-fantasy/internal/config"
	"github.com/MarcusAnderfelt/worlds-fantasy/internal/draft"
	"github.com/MarcusAnderfelt/worlds-fantasy/internal/league"
	"github.com/MarcusAnderfelt/worlds-fantasy/internal/service"
	"github.com/MarcusAnderfelt/worlds-fantasy/internal/store"
)

type AddTeamArgs struct {
	Name string `json:"name" jsonschema:"Fantasy team name"`
}

type AddPlayerArgs struct {
	Name     string `json:"name" jsonschema:"Player display name (required)"`
	Role     string `json:"role" jsonschema:"Position: Top|Jungle|Mid|ADC|Support"`
	Category string `json:"category" jsonschema:"Region: LCK|LPL|LEC|LCS|PCS"`
	ProTeam  string `json:"pro_team" jsonschema:"Pro team label, e.g. T1"`
}

type PlayerIDArgs struct {
	PlayerID string `json:"player_id" jsonschema:"Player id (required)"`
}

type StartDraftArgs struct {
	Snake *bool `json:"snake,omitempty" jsonschema:"Reverse order every other round (default true)"`
}

type RecordStatsArgs struct {
	PlayerID   string `json:"player_id" jsonschema:"Player id (required)"`
	Kills      int    `json:"kills" jsonschema:"Kills in the game"`
	Deaths     int    `json:"deaths" jsonschema:"Deaths in the game"`
	Assists    int    `json:"assists" jsonschema:"Assists in the game"`
	CreepScore int    `json:"creep_score" jsonschema:"Creep score in the game"`
}

type SetWeightsArgs struct {
	Kill       float64 `json:"kill" jsonschema:"Points per kill"`
	Assist     float64 `json:"assist" jsonschema:"Points per assist"`
	Death      float64 `json:"death" jsonschema:"Points per death (usually negative)"`
	CreepScore float64 `json:"creep_score" jsonschema:"Points per creep"`
}

type SearchArgs struct {
	Query string `json:"query" jsonschema:"Fuzzy name query (empty = all players)"`
}

type ImportArgs struct {
	Document string `json:"document" jsonschema:"League document JSON to import (migrated before use)"`
}

type EmptyArgs struct{}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func main() {
	var (
		addr        = flag.String("addr", ":8080", "HTTP listen address")
		mcpPath     = flag.String("path", "/mcp", "HTTP path for MCP endpoint")
		requireAuth = flag.Bool("require-auth", false, "require API key auth via WORLDS_FANTASY_API_KEY")
		authHeader  = flag.String("auth-header", "X-API-Key", "HTTP header to read API key from")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}

	cfg, err := config.New()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	st := store.NewSnapshotStore(cfg.Server.DataRoot)
	svc := service.NewLeagueService(st, draft.NewEngine(draft.NewShuffler()))
	log.WithField("snapshot", st.Path()).Info("league state loaded")

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "worlds-fantasy",
			Version: "1.0.0",
		},
		nil,
	)

	registry := make([]toolInfo, 0, 16)

	addTool(server, &registry, &mcp.Tool{
		Name:        "league_state",
		Description: "Current league document (teams, players, draft state, weights)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		b, err := svc.Export()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(b), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "standings",
		Description: "Teams ranked by total points recomputed from player stats",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		return toolMarshal(svc.Standings())
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "on_the_clock",
		Description: "Which team picks next, with round and pick pointer",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		return toolMarshal(svc.OnTheClock())
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "add_team",
		Description: "Add a fantasy team (only outside a running draft)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AddTeamArgs) (*mcp.CallToolResult, any, error) {
		t, err := svc.AddTeam(args.Name)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(t)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "add_player",
		Description: "Add a draftable pro player (only outside a running draft)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AddPlayerArgs) (*mcp.CallToolResult, any, error) {
		if args.Name == "" {
			return toolError(fmt.Errorf("name is required")), nil, nil
		}
		p, err := svc.AddPlayer(args.Name, args.Role, args.Category, args.ProTeam)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(p)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "remove_player",
		Description: "Remove an undrafted player from the pool",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerIDArgs) (*mcp.CallToolResult, any, error) {
		if args.PlayerID == "" {
			return toolError(fmt.Errorf("player_id is required")), nil, nil
		}
		if err := svc.RemovePlayer(args.PlayerID); err != nil {
			return toolError(err), nil, nil
		}
		return toolText("player removed"), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "start_draft",
		Description: "Start the draft; shuffles team order if none is set",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args StartDraftArgs) (*mcp.CallToolResult, any, error) {
		snake := true
		if args.Snake != nil {
			snake = *args.Snake
		}
		if err := svc.StartDraft(snake); err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(svc.OnTheClock())
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "randomize_order",
		Description: "Re-shuffle the draft order (only before the draft starts)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		if err := svc.RandomizeOrder(); err != nil {
			return toolError(err), nil, nil
		}
		return toolText("draft order randomized"), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "draft_pick",
		Description: "Draft a player to the on-the-clock team",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerIDArgs) (*mcp.CallToolResult, any, error) {
		if args.PlayerID == "" {
			return toolError(fmt.Errorf("player_id is required")), nil, nil
		}
		if err := svc.Pick(args.PlayerID); err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(svc.OnTheClock())
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "undo_pick",
		Description: "Undo the most recent pick",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		if err := svc.Undo(); err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(svc.OnTheClock())
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "record_stats",
		Description: "Append one game's stats to a player (bumps games played)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RecordStatsArgs) (*mcp.CallToolResult, any, error) {
		if args.PlayerID == "" {
			return toolError(fmt.Errorf("player_id is required")), nil, nil
		}
		if err := svc.RecordStats(args.PlayerID, args.Kills, args.Deaths, args.Assists, args.CreepScore); err != nil {
			return toolError(err), nil, nil
		}
		return toolText("stats recorded"), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "set_weights",
		Description: "Update scoring weights; points are derived so no rescore pass is needed",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SetWeightsArgs) (*mcp.CallToolResult, any, error) {
		w := league.ScoringWeights{
			Kill:       args.Kill,
			Assist:     args.Assist,
			Death:      args.Death,
			CreepScore: args.CreepScore,
		}
		if err := svc.SetWeights(w); err != nil {
			return toolError(err), nil, nil
		}
		return toolText("weights updated"), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "player_search",
		Description: "Fuzzy search players by name, with current points",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
		return toolMarshal(svc.SearchPlayers(args.Query))
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "import_league",
		Description: "Replace league state with an external document (migrated, never trusted)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ImportArgs) (*mcp.CallToolResult, any, error) {
		if err := svc.Import([]byte(args.Document)); err != nil {
			return toolError(err), nil, nil
		}
		b, err := svc.Export()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(b), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "reset_league",
		Description: "Discard everything and start from the default league",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		if err := svc.Reset(); err != nil {
			return toolError(err), nil, nil
		}
		return toolText("league reset"), nil, nil
	})

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	apiKey := strings.TrimSpace(cfg.Server.APIKey)
	if *requireAuth && apiKey == "" {
		log.Fatal("WORLDS_FANTASY_API_KEY is required (set env var or run with --require-auth=false)")
	}

	withAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(*authHeader))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next(w, r)
		}
	}

	http.HandleFunc("/health", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))

	http.HandleFunc("/tools", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	}))

	http.HandleFunc(*mcpPath, withAuth(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))

	log.WithFields(logrus.Fields{"addr": *addr, "path": *mcpPath}).Info("MCP HTTP server listening")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.WithError(err).Fatal("HTTP server stopped")
	}
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func toolMarshal(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(b), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolText(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
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
