package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/agent-registration/internal/types"
)

// CreateForm inserts a new registration form and fills in its generated ID
// and timestamps. The form's raw bytes go to the blob store separately.
func (db *DB) CreateForm(ctx context.Context, form *types.RegistrationForm) error {
	fields, mappings, slots, placements, err := marshalFormJSON(form)
	if err != nil {
		return err
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO forms (state_name, form_label, file_name, page_count, fieldable, needs_reupload,
		                    detected_fields, mappings, addendum_slots, placements)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		form.StateName, form.FormLabel, form.FileName, form.PageCount, form.Fieldable, form.NeedsReupload,
		fields, mappings, slots, placements,
	).Scan(&form.ID, &form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	return nil
}

// GetForm retrieves a registration form by ID. Returns nil if it does not
// exist.
func (db *DB) GetForm(ctx context.Context, id uuid.UUID) (*types.RegistrationForm, error) {
	var form types.RegistrationForm
	var fields, mappings, slots, placements []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, state_name, form_label, file_name, page_count, fieldable, needs_reupload,
		        detected_fields, mappings, addendum_slots, placements, created_at, updated_at
		 FROM forms WHERE id = $1`,
		id,
	).Scan(&form.ID, &form.StateName, &form.FormLabel, &form.FileName, &form.PageCount,
		&form.Fieldable, &form.NeedsReupload, &fields, &mappings, &slots, &placements,
		&form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	if err := unmarshalFormJSON(&form, fields, mappings, slots, placements); err != nil {
		return nil, err
	}
	return &form, nil
}

// ListForms retrieves all registration forms ordered by state, without their
// field-level payloads.
func (db *DB) ListForms(ctx context.Context) ([]types.RegistrationForm, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, state_name, form_label, file_name, page_count, fieldable, needs_reupload,
		        addendum_slots, created_at, updated_at
		 FROM forms ORDER BY state_name, file_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	defer rows.Close()

	var forms []types.RegistrationForm
	for rows.Next() {
		var form types.RegistrationForm
		var slots []byte
		if err := rows.Scan(&form.ID, &form.StateName, &form.FormLabel, &form.FileName,
			&form.PageCount, &form.Fieldable, &form.NeedsReupload, &slots,
			&form.CreatedAt, &form.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		if err := unmarshalFormJSON(&form, nil, nil, slots, nil); err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// UpdateForm replaces a form's metadata, mapping and slot state.
func (db *DB) UpdateForm(ctx context.Context, form *types.RegistrationForm) error {
	fields, mappings, slots, placements, err := marshalFormJSON(form)
	if err != nil {
		return err
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE forms
		 SET state_name = $1, form_label = $2, file_name = $3, page_count = $4,
		     fieldable = $5, needs_reupload = $6, detected_fields = $7, mappings = $8,
		     addendum_slots = $9, placements = $10, updated_at = NOW()
		 WHERE id = $11`,
		form.StateName, form.FormLabel, form.FileName, form.PageCount,
		form.Fieldable, form.NeedsReupload, fields, mappings, slots, placements, form.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("form not found: %s", form.ID)
	}
	return nil
}

// DeleteForm removes a form, its generations (via cascade) and its stored
// bytes.
func (db *DB) DeleteForm(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("form not found: %s", id)
	}
	return db.DeleteBlob(ctx, FormBlobKey(id))
}

func marshalFormJSON(form *types.RegistrationForm) (fields, mappings, slots, placements []byte, err error) {
	if fields, err = json.Marshal(form.DetectedFields); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal detected fields: %w", err)
	}
	if mappings, err = json.Marshal(form.Mappings); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal mappings: %w", err)
	}
	if slots, err = json.Marshal(form.AddendumSlots); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal addendum slots: %w", err)
	}
	if placements, err = json.Marshal(form.Placements); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal placements: %w", err)
	}
	return fields, mappings, slots, placements, nil
}

func unmarshalFormJSON(form *types.RegistrationForm, fields, mappings, slots, placements []byte) error {
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &form.DetectedFields); err != nil {
			return fmt.Errorf("failed to unmarshal detected fields: %w", err)
		}
	}
	if len(mappings) > 0 {
		if err := json.Unmarshal(mappings, &form.Mappings); err != nil {
			return fmt.Errorf("failed to unmarshal mappings: %w", err)
		}
	}
	if len(slots) > 0 {
		if err := json.Unmarshal(slots, &form.AddendumSlots); err != nil {
			return fmt.Errorf("failed to unmarshal addendum slots: %w", err)
		}
	}
	if len(placements) > 0 {
		if err := json.Unmarshal(placements, &form.Placements); err != nil {
			return fmt.Errorf("failed to unmarshal placements: %w", err)
		}
	}
	return nil
}
