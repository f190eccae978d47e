package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsafest/trivia-service/internal/api"
	"github.com/edsafest/trivia-service/internal/factory"
	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/services/user"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "triviafest-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/cli")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create application
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Storage:       app.Storage,
		AuthService:   app.AuthService,
		UserService:   app.UserService,
		TriviaService: app.TriviaService,
		PrizeService:  app.PrizeService,
		RaffleService: app.RaffleService,
		ConfigService: app.ConfigService,
		Engine:        app.Engine,
		QuizRunner:    app.QuizRunner,
		Hub:           app.Hub,
		Broadcaster:   app.Broadcaster,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			app.Hub.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// seedUsers registers an admin and a player directly through the service
// layer, returning their legajos. Both get explicit passwords so the
// forced-change flow stays out of the way.
func seedUsers(t *testing.T, ts *testServer) (adminLegajo, playerLegajo string) {
	t.Helper()

	ctx := context.Background()
	_, err := ts.app.UserService.Create(ctx, user.CreateInput{
		Legajo:   "9000",
		Username: "Root",
		Role:     model.RoleAdmin,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = ts.app.UserService.Create(ctx, user.CreateInput{
		Legajo:         "1234",
		Username:       "Alice",
		SeniorityScore: 50,
		Password:       "alicepass",
	})
	require.NoError(t, err)

	return "9000", "1234"
}

// Response types for JSON parsing
type authResponse struct {
	Profile struct {
		ID       string `json:"id"`
		Legajo   string `json:"legajo"`
		Username string `json:"username"`
		Role     string `json:"role"`
		Score    int    `json:"score"`
	} `json:"profile"`
	SessionToken       string `json:"session_token"`
	MustChangePassword bool   `json:"must_change_password"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Legajo   string `json:"legajo"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type triviaSummaryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
	Completed     bool   `json:"completed"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_LoginAndProfile(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()
	_, playerLegajo := seedUsers(t, ts)

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "login", "--legajo", playerLegajo, "--pass", "alicepass")
	require.NoError(t, err, "output: %s", output)

	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))
	assert.Equal(t, "Alice", auth.Profile.Username)
	assert.Equal(t, 50, auth.Profile.Score)
	assert.NotEmpty(t, auth.SessionToken)
	assert.False(t, auth.MustChangePassword)

	// Token was persisted; me works without an explicit token
	output, err = cli.run("auth", "me")
	require.NoError(t, err, "output: %s", output)

	var profile profileResponse
	require.NoError(t, json.Unmarshal([]byte(output), &profile))
	assert.Equal(t, playerLegajo, profile.Legajo)
}

func TestCLI_LoginBadPassword(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()
	_, playerLegajo := seedUsers(t, ts)

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "login", "--legajo", playerLegajo, "--pass", "wrong")
	require.Error(t, err)
	assert.Contains(t, output, "INVALID_CREDENTIALS")
}

func TestCLI_TriviaFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()
	adminLegajo, playerLegajo := seedUsers(t, ts)

	cli := newCLIRunner(t, ts.addr)

	// Admin creates a trivia and activates it
	output, err := cli.run("auth", "login", "--legajo", adminLegajo, "--pass", "hunter2hunter2")
	require.NoError(t, err, "output: %s", output)
	var adminAuth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &adminAuth))

	triviaFile := filepath.Join(t.TempDir(), "trivia.json")
	triviaJSON := `{
		"name": "Movie night",
		"questions": [
			{
				"text": "Best picture 2020?",
				"options": ["Parasite", "1917"],
				"correct_answer": "Parasite",
				"timer": 30,
				"points": 10
			}
		]
	}`
	require.NoError(t, os.WriteFile(triviaFile, []byte(triviaJSON), 0600))

	output, err = cli.runWithToken(adminAuth.SessionToken, "admin", "trivia", "create", "--file", triviaFile)
	require.NoError(t, err, "output: %s", output)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	require.NotEmpty(t, created.ID)

	output, err = cli.runWithToken(adminAuth.SessionToken, "admin", "config", "active", created.ID)
	require.NoError(t, err, "output: %s", output)

	// Player sees and plays it
	output, err = cli.run("auth", "login", "--legajo", playerLegajo, "--pass", "alicepass")
	require.NoError(t, err, "output: %s", output)
	var playerAuth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &playerAuth))

	output, err = cli.runWithToken(playerAuth.SessionToken, "trivia", "list")
	require.NoError(t, err, "output: %s", output)
	var trivias []triviaSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(output), &trivias))
	require.Len(t, trivias, 1)
	assert.Equal(t, "Movie night", trivias[0].Name)
	assert.False(t, trivias[0].Completed)

	output, err = cli.runWithToken(playerAuth.SessionToken, "trivia", "start", created.ID)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.runWithToken(playerAuth.SessionToken, "trivia", "answer", created.ID, "--answer", "Parasite")
	require.NoError(t, err, "output: %s", output)
	var answer struct {
		Correct    bool `json:"correct"`
		Awarded    int  `json:"awarded"`
		TotalScore int  `json:"total_score"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &answer))
	assert.True(t, answer.Correct)
	assert.Equal(t, 10, answer.Awarded)
	assert.Equal(t, 60, answer.TotalScore)

	output, err = cli.runWithToken(playerAuth.SessionToken, "trivia", "advance", created.ID)
	require.NoError(t, err, "output: %s", output)
	var snapshot struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &snapshot))
	assert.Equal(t, "finished", snapshot.State)

	// The trivia now shows as completed and cannot be restarted
	output, err = cli.runWithToken(playerAuth.SessionToken, "trivia", "list")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &trivias))
	assert.True(t, trivias[0].Completed)

	output, err = cli.runWithToken(playerAuth.SessionToken, "trivia", "start", created.ID)
	require.Error(t, err)
	assert.Contains(t, output, "TRIVIA_COMPLETED")
}

func TestCLI_RaffleFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()
	adminLegajo, playerLegajo := seedUsers(t, ts)

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "login", "--legajo", adminLegajo, "--pass", "hunter2hunter2")
	require.NoError(t, err, "output: %s", output)
	var adminAuth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &adminAuth))

	output, err = cli.run("auth", "login", "--legajo", playerLegajo, "--pass", "alicepass")
	require.NoError(t, err, "output: %s", output)
	var playerAuth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &playerAuth))

	// Raffle starts disabled
	output, err = cli.runWithToken(playerAuth.SessionToken, "raffle", "select", "7")
	require.Error(t, err)
	assert.Contains(t, output, "RAFFLE_DISABLED")

	// Admin enables it
	output, err = cli.runWithToken(adminAuth.SessionToken, "admin", "config", "raffle", "--enabled")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.runWithToken(playerAuth.SessionToken, "raffle", "select", "7")
	require.NoError(t, err, "output: %s", output)

	// Board shows the claim
	output, err = cli.runWithToken(playerAuth.SessionToken, "raffle", "board")
	require.NoError(t, err, "output: %s", output)
	var board struct {
		Enabled bool `json:"enabled"`
		Claims  []struct {
			Number int    `json:"number"`
			Name   string `json:"name"`
		} `json:"claims"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	assert.True(t, board.Enabled)
	require.Len(t, board.Claims, 1)
	assert.Equal(t, 7, board.Claims[0].Number)
	assert.Equal(t, "Alice", board.Claims[0].Name)
}

func TestCLI_AdminRequiresRole(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()
	_, playerLegajo := seedUsers(t, ts)

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "login", "--legajo", playerLegajo, "--pass", "alicepass")
	require.NoError(t, err, "output: %s", output)
	var playerAuth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &playerAuth))

	output, err = cli.runWithToken(playerAuth.SessionToken, "admin", "user", "list")
	require.Error(t, err)
	assert.Contains(t, output, "FORBIDDEN")
}

func TestCLI_UnauthenticatedRejected(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "me")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}
