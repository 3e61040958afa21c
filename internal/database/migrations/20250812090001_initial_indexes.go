package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Group-buy lifecycle indexes
			CREATE INDEX IF NOT EXISTS idx_group_buys_status
			ON group_buys (status);

			CREATE INDEX IF NOT EXISTS idx_group_buys_bidding_deadline
			ON group_buys (end_time)
			WHERE status = 1;

			CREATE INDEX IF NOT EXISTS idx_group_buys_final_selection_deadline
			ON group_buys (final_selection_end)
			WHERE final_selection_end IS NOT NULL;

			-- Bid indexes
			CREATE INDEX IF NOT EXISTS idx_bids_group_buy_status
			ON bids (group_buy_id, status);

			CREATE UNIQUE INDEX IF NOT EXISTS idx_bids_one_selected
			ON bids (group_buy_id)
			WHERE status = 1;

			-- Consent indexes
			CREATE INDEX IF NOT EXISTS idx_consent_processes_group_buy
			ON consent_processes (group_buy_id, started_at DESC);

			CREATE INDEX IF NOT EXISTS idx_consent_processes_open_deadline
			ON consent_processes (deadline)
			WHERE status = 0;

			-- Report indexes
			CREATE INDEX IF NOT EXISTS idx_reports_dedup
			ON no_show_reports (reporter_id, reported_user_id, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_reports_status_created
			ON no_show_reports (status, created_at ASC);

			CREATE INDEX IF NOT EXISTS idx_reports_verified_against
			ON no_show_reports (reported_user_id)
			WHERE status = 2 AND false_report = FALSE;

			-- Penalty indexes
			CREATE INDEX IF NOT EXISTS idx_penalties_user_active
			ON penalties (user_id, end_date DESC)
			WHERE status = 0;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_group_buys_status;
			DROP INDEX IF EXISTS idx_group_buys_bidding_deadline;
			DROP INDEX IF EXISTS idx_group_buys_final_selection_deadline;
			DROP INDEX IF EXISTS idx_bids_group_buy_status;
			DROP INDEX IF EXISTS idx_bids_one_selected;
			DROP INDEX IF EXISTS idx_consent_processes_group_buy;
			DROP INDEX IF EXISTS idx_consent_processes_open_deadline;
			DROP INDEX IF EXISTS idx_reports_dedup;
			DROP INDEX IF EXISTS idx_reports_status_created;
			DROP INDEX IF EXISTS idx_reports_verified_against;
			DROP INDEX IF EXISTS idx_penalties_user_active;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
