package pg

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
	"wealthwatch-service/internal/infrastructure/logx"
)

// ResolutionRepo is the audit trail of fallback walks.
type ResolutionRepo struct {
	db  *DB
	uow *UnitOfWork
}

var (
	_ application.ResolutionRecorder = (*ResolutionRepo)(nil)
	_ application.ResolutionLog      = (*ResolutionRepo)(nil)
)

func NewResolutionRepo(db *DB) *ResolutionRepo {
	return &ResolutionRepo{db: db, uow: &UnitOfWork{Pool: db.Pool}}
}

// Record stores res and its failures in one transaction.
func (r *ResolutionRepo) Record(ctx context.Context, res domain.Resolution) error {
	const ins = `
        INSERT INTO quote_resolutions(kind, symbol, period, provenance, source, not_found, resolved_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	const insFailure = `
        INSERT INTO resolution_failures(resolution_id, position, provider, reason, message)
        VALUES ($1, $2, $3, $4, $5)`
	log := logx.L().With(
		zap.String("repo", "resolution"),
		zap.String("operation", "Record"),
		zap.String("symbol", res.Symbol),
		zap.String("kind", string(res.Kind)),
	)
	log.Debug("sql.exec_start", zap.String("sql", ins))

	err := r.uow.Do(ctx, func(ctx context.Context) error {
		var id int64
		err := r.db.conn(ctx).QueryRow(ctx, ins,
			res.Kind, res.Symbol, res.Period, res.Provenance, res.Source, res.NotFound, res.ResolvedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert resolution: %w", err)
		}
		for i, f := range res.Failures {
			if _, err := r.db.conn(ctx).Exec(ctx, insFailure, id, i, f.Provider, f.Reason, f.Message); err != nil {
				return fmt.Errorf("insert failure %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Debug("sql.exec_success", zap.Int("failures", len(res.Failures)))
	return nil
}

// Recent returns up to limit resolutions, newest first.
func (r *ResolutionRepo) Recent(ctx context.Context, limit int) ([]domain.Resolution, error) {
	const q = `
        SELECT id, kind, symbol, period, provenance, source, not_found, resolved_at
        FROM quote_resolutions
        ORDER BY resolved_at DESC, id DESC
        LIMIT $1`
	const qFailures = `
        SELECT resolution_id, provider, reason, message
        FROM resolution_failures
        WHERE resolution_id = ANY($1)
        ORDER BY resolution_id, position`
	log := logx.L().With(
		zap.String("repo", "resolution"),
		zap.String("operation", "Recent"),
		zap.Int("limit", limit),
	)
	log.Debug("sql.query_start", zap.String("sql", q))

	rows, err := r.db.conn(ctx).Query(ctx, q, limit)
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return nil, err
	}
	out := []domain.Resolution{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var (
			res             domain.Resolution
			kind, prov, per string
		)
		if err := rows.Scan(&res.ID, &kind, &res.Symbol, &per, &prov, &res.Source, &res.NotFound, &res.ResolvedAt); err != nil {
			rows.Close()
			log.Error("sql.scan_failed", zap.Error(err))
			return nil, err
		}
		res.Kind, res.Period, res.Provenance = domain.ResolutionKind(kind), domain.Period(per), domain.Provenance(prov)
		res.ResolvedAt = res.ResolvedAt.UTC()
		index[res.ID] = len(out)
		ids = append(ids, res.ID)
		out = append(out, res)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	frows, err := r.db.conn(ctx).Query(ctx, qFailures, ids)
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return nil, err
	}
	defer frows.Close()
	for frows.Next() {
		var (
			id     int64
			f      domain.ProviderFailure
			reason string
		)
		if err := frows.Scan(&id, &f.Provider, &reason, &f.Message); err != nil {
			log.Error("sql.scan_failed", zap.Error(err))
			return nil, err
		}
		f.Reason = domain.FailureReason(reason)
		i := index[id]
		out[i].Failures = append(out[i].Failures, f)
	}
	if err := frows.Err(); err != nil {
		return nil, err
	}
	log.Debug("sql.query_success", zap.Int("rows", len(out)))
	return out, nil
}
