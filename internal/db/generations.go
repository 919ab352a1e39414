package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Generation is one recorded generation run: which form was filled for which
// agent, how it ended, and the assembly report.
type Generation struct {
	ID        uuid.UUID       `json:"id"`
	FormID    uuid.UUID       `json:"form_id"`
	AgentID   uuid.UUID       `json:"agent_id"`
	Status    string          `json:"status"`
	Report    json.RawMessage `json:"report,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateGeneration records a generation run and fills in its generated ID.
func (db *DB) CreateGeneration(ctx context.Context, gen *Generation) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO generations (form_id, agent_id, status, report)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		gen.FormID, gen.AgentID, gen.Status, gen.Report,
	).Scan(&gen.ID, &gen.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create generation: %w", err)
	}
	return nil
}

// GetGeneration retrieves a generation record by ID. Returns nil if it does
// not exist.
func (db *DB) GetGeneration(ctx context.Context, id uuid.UUID) (*Generation, error) {
	var gen Generation
	err := db.pool.QueryRow(ctx,
		`SELECT id, form_id, agent_id, status, report, created_at
		 FROM generations WHERE id = $1`,
		id,
	).Scan(&gen.ID, &gen.FormID, &gen.AgentID, &gen.Status, &gen.Report, &gen.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return &gen, nil
}

// ListGenerations retrieves recent generation records, optionally filtered
// by form or agent.
func (db *DB) ListGenerations(ctx context.Context, formID, agentID uuid.UUID, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, form_id, agent_id, status, report, created_at
		FROM generations WHERE 1=1`
	args := []any{}
	argNum := 1

	if formID != uuid.Nil {
		query += fmt.Sprintf(" AND form_id = $%d", argNum)
		args = append(args, formID)
		argNum++
	}
	if agentID != uuid.Nil {
		query += fmt.Sprintf(" AND agent_id = $%d", argNum)
		args = append(args, agentID)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var gens []Generation
	for rows.Next() {
		var gen Generation
		if err := rows.Scan(&gen.ID, &gen.FormID, &gen.AgentID, &gen.Status, &gen.Report, &gen.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		gens = append(gens, gen)
	}
	return gens, nil
}
