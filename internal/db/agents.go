package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/agent-registration/internal/types"
)

// CreateAgent inserts a new agent profile and fills in its generated ID and
// timestamps.
func (db *DB) CreateAgent(ctx context.Context, agent *types.Agent) error {
	profile, err := marshalProfile(agent)
	if err != nil {
		return err
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO agents (profile)
		 VALUES ($1)
		 RETURNING id, created_at, updated_at`,
		profile,
	).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

// GetAgent retrieves an agent by ID, including addendum metadata but not
// addendum payloads. Returns nil if the agent does not exist.
func (db *DB) GetAgent(ctx context.Context, id uuid.UUID) (*types.Agent, error) {
	var profile []byte
	var agent types.Agent
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile, created_at, updated_at FROM agents WHERE id = $1`,
		id,
	).Scan(&agent.ID, &profile, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	if err := unmarshalProfile(profile, &agent); err != nil {
		return nil, err
	}
	if err := db.loadAddendumMeta(ctx, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// ListAgents retrieves all agent profiles, newest first, without addendum
// metadata or payloads.
func (db *DB) ListAgents(ctx context.Context) ([]types.Agent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile, created_at, updated_at FROM agents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []types.Agent
	for rows.Next() {
		var profile []byte
		var agent types.Agent
		if err := rows.Scan(&agent.ID, &profile, &agent.CreatedAt, &agent.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		if err := unmarshalProfile(profile, &agent); err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

// UpdateAgent replaces an agent's stored profile.
func (db *DB) UpdateAgent(ctx context.Context, agent *types.Agent) error {
	profile, err := marshalProfile(agent)
	if err != nil {
		return err
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE agents SET profile = $1, updated_at = NOW() WHERE id = $2`,
		profile, agent.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("agent not found: %s", agent.ID)
	}
	return nil
}

// DeleteAgent removes an agent, its addendum metadata (via cascade) and its
// addendum payloads.
func (db *DB) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("agent not found: %s", id)
	}
	return db.DeleteBlobsByPrefix(ctx, fmt.Sprintf("addendums/%s/", id))
}

// PutAddendum stores one addendum payload for an agent, replacing any
// previous document of the same kind.
func (db *DB) PutAddendum(ctx context.Context, agentID uuid.UUID, kind types.AddendumKind, name string, data []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO agent_addendums (agent_id, kind, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (agent_id, kind) DO UPDATE SET name = $3`,
		agentID, kind, name,
	)
	if err != nil {
		return fmt.Errorf("failed to save addendum %s: %w", kind, err)
	}
	if len(data) == 0 {
		return nil
	}
	return db.PutBlob(ctx, AddendumBlobKey(agentID, kind), data)
}

// DeleteAddendum removes one addendum and its payload.
func (db *DB) DeleteAddendum(ctx context.Context, agentID uuid.UUID, kind types.AddendumKind) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM agent_addendums WHERE agent_id = $1 AND kind = $2`,
		agentID, kind,
	)
	if err != nil {
		return fmt.Errorf("failed to delete addendum %s: %w", kind, err)
	}
	return db.DeleteBlob(ctx, AddendumBlobKey(agentID, kind))
}

// LoadAddendumPayloads fills in the byte payload of every addendum attached
// to the agent. Entries without a stored payload keep empty bytes; the
// assembler reports those as needing a re-upload.
func (db *DB) LoadAddendumPayloads(ctx context.Context, agent *types.Agent) error {
	for kind, add := range agent.Addendums {
		data, err := db.GetBlob(ctx, AddendumBlobKey(agent.ID, kind))
		if err != nil {
			return err
		}
		add.Bytes = data
		agent.Addendums[kind] = add
	}
	return nil
}

func (db *DB) loadAddendumMeta(ctx context.Context, agent *types.Agent) error {
	rows, err := db.pool.Query(ctx,
		`SELECT kind, name FROM agent_addendums WHERE agent_id = $1 ORDER BY kind`,
		agent.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to list addendums: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind types.AddendumKind
		var name string
		if err := rows.Scan(&kind, &name); err != nil {
			return fmt.Errorf("failed to scan addendum: %w", err)
		}
		if agent.Addendums == nil {
			agent.Addendums = map[types.AddendumKind]types.Addendum{}
		}
		agent.Addendums[kind] = types.Addendum{Name: name}
	}
	return nil
}

// marshalProfile serializes the attribute fields of an agent. Identity,
// addendums and timestamps live in their own columns and tables.
func marshalProfile(agent *types.Agent) ([]byte, error) {
	stripped := *agent
	stripped.ID = uuid.Nil
	stripped.Addendums = nil
	stripped.CreatedAt = time.Time{}
	stripped.UpdatedAt = time.Time{}
	data, err := json.Marshal(stripped)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent profile: %w", err)
	}
	return data, nil
}

func unmarshalProfile(data []byte, agent *types.Agent) error {
	id, created, updated := agent.ID, agent.CreatedAt, agent.UpdatedAt
	if err := json.Unmarshal(data, agent); err != nil {
		return fmt.Errorf("failed to unmarshal agent profile: %w", err)
	}
	agent.ID, agent.CreatedAt, agent.UpdatedAt = id, created, updated
	return nil
}
