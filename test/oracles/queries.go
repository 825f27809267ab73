package oracles

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
	Args []any
}

// All returns the invariants checked against user_statuses. Each query must
// return no rows.
func All(ttls []time.Duration) []Oracle {
	windows := make([]int64, 0, len(ttls))
	for _, ttl := range ttls {
		windows = append(windows, ttl.Microseconds())
	}

	return []Oracle{
		{
			Name: "O1_one_record_per_member",
			SQL: `SELECT user_id, guild_id, COUNT(*) FROM user_statuses
                  GROUP BY user_id, guild_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O2_supported_status",
			SQL: `SELECT id, status FROM user_statuses
                  WHERE status NOT IN ('creative-flow','client-work','available','busy','break')`,
		},
		{
			Name: "O3_ttl_window",
			SQL: `SELECT id, set_at, expires_at FROM user_statuses
                  WHERE (EXTRACT(EPOCH FROM expires_at - set_at) * 1000000)::bigint <> ALL ($1::bigint[])`,
			Args: []any{windows},
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool, ttls []time.Duration) (string, string, error) {
	for _, o := range All(ttls) {
		rows, err := pool.Query(ctx, o.SQL, o.Args...)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
	}
	return "", "", nil
}
