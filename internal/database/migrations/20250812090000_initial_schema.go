package migrations

import (
	"context"
	"fmt"

	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []struct {
			model any
			name  string
		}{
			{(*types.GroupBuy)(nil), "group_buys"},
			{(*types.Bid)(nil), "bids"},
			{(*types.Participant)(nil), "participants"},
			{(*types.ConsentProcess)(nil), "consent_processes"},
			{(*types.ConsentResponse)(nil), "consent_responses"},
			{(*types.NoShowReport)(nil), "no_show_reports"},
			{(*types.Penalty)(nil), "penalties"},
		}

		for _, table := range tables {
			_, err := db.NewCreateTable().
				Model(table.model).
				ModelTableExpr(table.name).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %s: %w", table.name, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{
			"penalties",
			"no_show_reports",
			"consent_responses",
			"consent_processes",
			"participants",
			"bids",
			"group_buys",
		}

		for _, table := range tables {
			_, err := db.NewDropTable().
				TableExpr(table).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
