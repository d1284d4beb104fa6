package postgres

import (
	"context"
	"watcher/pkg/domain"
	"watcher/pkg/serrors"

	"github.com/doug-martin/goqu/v9"
)

const registryTable = "registry_items"

// Load returns every confirmed item. An empty table yields an empty set.
func (p *PgSQL) Load(ctx context.Context) (domain.ItemSet, error) {
	var rows []PgRegistryItem
	if err := p.q.From(registryTable).
		Select(&PgRegistryItem{}).
		Order(goqu.I("url").Asc()).
		ScanStructsContext(ctx, &rows); err != nil {
		return nil, serrors.Wrap(serrors.ErrPersistence, err, "could not load registry from pg")
	}

	items := domain.NewItemSet()
	for _, r := range rows {
		items.Add(r.URL)
	}

	return items, nil
}

// Save makes the table content equal to items in a single transaction: rows
// not in items are deleted and missing ones are inserted.
func (p *PgSQL) Save(ctx context.Context, items domain.ItemSet) error {
	urls := items.Sorted()

	err := p.withTx(ctx, func(tx *goqu.TxDatabase) error {
		del := tx.Delete(registryTable)
		if len(urls) > 0 {
			del = del.Where(goqu.I("url").NotIn(urls))
		}
		if _, err := del.Executor().ExecContext(ctx); err != nil {
			return serrors.Wrap(serrors.ErrPersistence, err, "could not delete stale registry items in pg")
		}

		if len(urls) == 0 {
			return nil
		}

		rows := make([]PgRegistryItem, 0, len(urls))
		for _, u := range urls {
			rows = append(rows, PgRegistryItem{URL: u})
		}
		if _, err := tx.Insert(registryTable).
			Rows(rows).
			OnConflict(goqu.DoNothing()).
			Executor().ExecContext(ctx); err != nil {
			return serrors.Wrap(serrors.ErrPersistence, err, "could not insert registry items into pg")
		}

		return nil
	})
	if err != nil {
		return serrors.Wrap(serrors.ErrPersistence, err, "could not save registry")
	}

	return nil
}
