// Package archive provides integration tests for the SurrealDB-backed
// episode archive. Requires Docker.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

var testClient *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testClient, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testClient.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testClient.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func sampleEpisode(id string) models.Episode {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	success := true
	summary := "done"
	adjusted := 0.99

	return models.Episode{
		ID:       id,
		Goal:     "answer a question",
		Metadata: map[string]any{"run": "integration"},
		Transitions: []models.Transition{
			{
				Kind:           models.KindModelCall,
				Timestamp:      start.Add(time.Second),
				Input:          "what is 6*7?",
				Output:         "42",
				Model:          "claude",
				Reward:         1.0,
				AdjustedReward: &adjusted,
			},
		},
		TotalReward:     1.0,
		Status:          models.StatusCompleted,
		StartTime:       start,
		EndTime:         &end,
		Success:         &success,
		Summary:         &summary,
		DurationSeconds: 90,
	}
}

func TestArchiveAndGetEpisode(t *testing.T) {
	ctx := context.Background()

	ep := sampleEpisode("ep_20260301T120000_aaaa0001")
	if err := testClient.ArchiveEpisode(ctx, ep); err != nil {
		t.Fatalf("ArchiveEpisode failed: %v", err)
	}

	rec, err := testClient.GetEpisode(ctx, ep.ID)
	if err != nil {
		t.Fatalf("GetEpisode failed: %v", err)
	}

	if rec.EpisodeID != ep.ID {
		t.Errorf("Expected episode_id %q, got %q", ep.ID, rec.EpisodeID)
	}
	if rec.Goal != ep.Goal {
		t.Errorf("Expected goal %q, got %q", ep.Goal, rec.Goal)
	}
	if rec.TotalReward != 1.0 {
		t.Errorf("Expected total_reward 1.0, got %v", rec.TotalReward)
	}
	if rec.Status != "completed" {
		t.Errorf("Expected status completed, got %q", rec.Status)
	}
	if rec.Success == nil || !*rec.Success {
		t.Errorf("Expected success true, got %v", rec.Success)
	}
	if len(rec.Transitions) != 1 {
		t.Fatalf("Expected 1 transition, got %d", len(rec.Transitions))
	}
	if rec.Transitions[0].Output != "42" {
		t.Errorf("Expected transition output 42, got %q", rec.Transitions[0].Output)
	}
	if rec.ArchivedAt.IsZero() {
		t.Error("Expected archived_at to be set")
	}
}

func TestGetEpisodeNotFound(t *testing.T) {
	ctx := context.Background()

	_, err := testClient.GetEpisode(ctx, "ep_never_archived")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListRecent(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ep := sampleEpisode(fmt.Sprintf("ep_20260301T1201%02d_bbbb000%d", i, i))
		if err := testClient.ArchiveEpisode(ctx, ep); err != nil {
			t.Fatalf("ArchiveEpisode failed: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	records, err := testClient.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ArchivedAt.Before(records[1].ArchivedAt) {
		t.Error("Expected newest-first ordering")
	}
}
