package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"roomcheck/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// marshalList keeps empty collections as "[]", never NULL, so JSON columns
// always hold valid documents.
func marshalList(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertInspection(ctx context.Context, ins domain.Inspection) (int64, error) {
	equipment, err := marshalList(ins.Equipment)
	if err != nil {
		return 0, fmt.Errorf("marshal equipment: %w", err)
	}
	inventory, err := marshalList(ins.Inventory)
	if err != nil {
		return 0, fmt.Errorf("marshal inventory: %w", err)
	}
	damages, err := marshalList(ins.Damages)
	if err != nil {
		return 0, fmt.Errorf("marshal damages: %w", err)
	}
	blocking, err := marshalList(ins.Result.BlockingIssues)
	if err != nil {
		return 0, fmt.Errorf("marshal blocking issues: %w", err)
	}

	var completedAt any
	if !ins.CompletedAt.IsZero() {
		completedAt = ins.CompletedAt.UTC()
	}

	if ins.ID == 0 {
		res, err := r.db.ExecContext(ctx, insertInspectionSQL,
			ins.RoomID,
			valStr(ins.Inspector),
			valStr(ins.Notes),
			equipment,
			inventory,
			damages,
			ins.Result.Score,
			ins.Result.CanCheckout,
			ins.Result.TotalCharges,
			blocking,
			completedAt,
		)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	_, err = r.db.ExecContext(ctx, upsertInspectionSQL,
		ins.ID,
		ins.RoomID,
		valStr(ins.Inspector),
		valStr(ins.Notes),
		equipment,
		inventory,
		damages,
		ins.Result.Score,
		ins.Result.CanCheckout,
		ins.Result.TotalCharges,
		blocking,
		completedAt,
	)
	return ins.ID, err
}

func (r *Repo) UpdateResult(ctx context.Context, id int64, res domain.ScoringResult) error {
	blocking, err := marshalList(res.BlockingIssues)
	if err != nil {
		return fmt.Errorf("marshal blocking issues: %w", err)
	}
	out, err := r.db.ExecContext(ctx, updateResultSQL,
		res.Score, res.CanCheckout, res.TotalCharges, blocking, id)
	if err != nil {
		return err
	}
	if n, err := out.RowsAffected(); err == nil && n == 0 {
		// Verify the row exists; an unchanged row also reports 0 affected.
		var exists int64
		if qerr := r.db.QueryRowContext(ctx, `SELECT id FROM inspections WHERE id = ?`, id).Scan(&exists); qerr == sql.ErrNoRows {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *Repo) LogPolicyMiss(ctx context.Context, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertPolicyMissSQL, status, reason)
	return err
}

func (r *Repo) GetInspection(ctx context.Context, id int64) (domain.Inspection, error) {
	row := r.db.QueryRowContext(ctx, getInspectionSQL, id)
	ins, err := scanInspection(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Inspection{}, domain.ErrNotFound
	}
	return ins, err
}

func (r *Repo) ListRoomInspections(ctx context.Context, roomID int64, pg domain.PageQuery) (domain.InspectionsPage, error) {
	limit := pg.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listRoomInspectionsSQL, roomID, limit)
	if err != nil {
		return domain.InspectionsPage{}, err
	}
	defer rows.Close()

	var out []domain.Inspection
	for rows.Next() {
		ins, err := scanInspection(rows.Scan)
		if err != nil {
			return domain.InspectionsPage{}, err
		}
		out = append(out, ins)
	}
	if err := rows.Err(); err != nil {
		return domain.InspectionsPage{}, err
	}
	return domain.InspectionsPage{Items: out}, nil
}

func (r *Repo) ListInspectionIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, listInspectionIDsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanInspection maps one row, whichever cursor it came from.
func scanInspection(scan func(...any) error) (domain.Inspection, error) {
	var (
		ins              domain.Inspection
		inspector, notes sql.NullString
		equipmentRaw     []byte
		inventoryRaw     []byte
		damagesRaw       []byte
		blockingRaw      []byte
		canCheckout      bool
		totalCharges     float64
		completedAt      sql.NullTime
	)
	if err := scan(
		&ins.ID,
		&ins.RoomID,
		&inspector,
		&notes,
		&equipmentRaw,
		&inventoryRaw,
		&damagesRaw,
		&ins.Result.Score,
		&canCheckout,
		&totalCharges,
		&blockingRaw,
		&completedAt,
	); err != nil {
		return domain.Inspection{}, err
	}

	if inspector.Valid {
		s := inspector.String
		ins.Inspector = &s
	}
	if notes.Valid {
		s := notes.String
		ins.Notes = &s
	}
	_ = json.Unmarshal(equipmentRaw, &ins.Equipment)
	_ = json.Unmarshal(inventoryRaw, &ins.Inventory)
	_ = json.Unmarshal(damagesRaw, &ins.Damages)
	_ = json.Unmarshal(blockingRaw, &ins.Result.BlockingIssues)
	ins.Result.CanCheckout = canCheckout
	ins.Result.TotalCharges = totalCharges
	if completedAt.Valid {
		ins.CompletedAt = completedAt.Time.UTC()
	} else {
		ins.CompletedAt = time.Time{}
	}
	return ins, nil
}
