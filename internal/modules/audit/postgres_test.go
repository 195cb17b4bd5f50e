package audit

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The repository tests run against a recording in-memory driver: queries
// are answered by substring match and every executed statement is captured,
// so the SQL layer can be exercised without a server.

type recordedExec struct {
	query string
	args  []driver.Value
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
}

type stubConn struct {
	results map[string]stubRows

	queries   []string
	execs     []recordedExec
	commits   int
	rollbacks int
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements are not supported")
}
func (c *stubConn) Close() error              { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return c, nil }
func (c *stubConn) Commit() error             { c.commits++; return nil }
func (c *stubConn) Rollback() error           { c.rollbacks++; return nil }

func (c *stubConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return c, nil
}

func (c *stubConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	vals := make([]driver.Value, len(args))
	for i, a := range args {
		vals[i] = a.Value
	}
	c.execs = append(c.execs, recordedExec{query: query, args: vals})
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.queries = append(c.queries, query)
	for sub, data := range c.results {
		if strings.Contains(query, sub) {
			return &stubRowsIter{data: data}, nil
		}
	}
	return &stubRowsIter{}, nil
}

type stubRowsIter struct {
	data stubRows
	next int
}

func (r *stubRowsIter) Columns() []string { return r.data.cols }
func (r *stubRowsIter) Close() error      { return nil }

func (r *stubRowsIter) Next(dest []driver.Value) error {
	if r.next >= len(r.data.rows) {
		return io.EOF
	}
	copy(dest, r.data.rows[r.next])
	r.next++
	return nil
}

type stubConnector struct{ conn *stubConn }

func (c stubConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c stubConnector) Driver() driver.Driver                        { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through the connector")
}

func openStub(conn *stubConn) *sql.DB { return sql.OpenDB(stubConnector{conn: conn}) }

func planFixture() *Audit {
	return &Audit{
		ID:              uuid.New(),
		ReferenceNumber: "AUDIT-260305-0001",
		WarehouseID:     uuid.New(),
		Status:          StatusPlanned,
		StartDate:       testTime,
		CreatedByID:     uuid.New(),
	}
}

func TestCreatePlan(t *testing.T) {
	t.Run("only stocked items become audit lines", func(t *testing.T) {
		// The warehouse holds quantities 10, 0 and 5. The zero row is
		// excluded by the snapshot itself, so the driver answers only
		// the two stocked rows and nothing else may turn into an item.
		conn := &stubConn{results: map[string]stubRows{
			"FROM inventory_items": {
				cols: []string{"id", "product_id", "quantity"},
				rows: [][]driver.Value{
					{uuid.NewString(), uuid.NewString(), int64(10)},
					{uuid.NewString(), uuid.NewString(), int64(5)},
				},
			},
		}}
		repo := NewPostgresRepository(openStub(conn))

		count, err := repo.CreatePlan(context.Background(), planFixture(), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		var snapshot string
		for _, q := range conn.queries {
			if strings.Contains(q, "FROM inventory_items") {
				snapshot = q
			}
		}
		require.NotEmpty(t, snapshot)
		assert.Contains(t, snapshot, "quantity > 0")
		assert.NotContains(t, snapshot, "bin_id")

		var expected []int64
		for _, e := range conn.execs {
			if strings.Contains(e.query, "INSERT INTO audit_items") {
				expected = append(expected, e.args[4].(int64))
			}
		}
		assert.Equal(t, []int64{10, 5}, expected)
		assert.Equal(t, 1, conn.commits)
	})

	t.Run("a bin filter narrows the snapshot", func(t *testing.T) {
		conn := &stubConn{}
		repo := NewPostgresRepository(openStub(conn))

		count, err := repo.CreatePlan(context.Background(), planFixture(), []uuid.UUID{uuid.New()})
		require.NoError(t, err)
		assert.Zero(t, count)

		require.Len(t, conn.queries, 1)
		assert.Contains(t, conn.queries[0], "quantity > 0")
		assert.Contains(t, conn.queries[0], "bin_id = ANY")
	})
}

func itemRowColumns() []string {
	return []string{
		"id", "audit_id", "product_id", "inventory_item_id", "expected_quantity",
		"actual_quantity", "variance", "status", "notes", "counted_by_id", "counted_at", "created_at",
		"product_id", "name", "sku",
	}
}

func TestGetItem(t *testing.T) {
	itemID := uuid.New()
	auditID := uuid.New()
	productID := uuid.New()
	inventoryItemID := uuid.New()

	t.Run("a freshly planned item scans with every count column null", func(t *testing.T) {
		conn := &stubConn{results: map[string]stubRows{
			"FROM audit_items": {
				cols: itemRowColumns(),
				rows: [][]driver.Value{{
					itemID.String(), auditID.String(), productID.String(), inventoryItemID.String(), int64(10),
					nil, nil, "PENDING", nil, nil, nil, testTime,
					productID.String(), "Basmati Rice 5kg", "GRO-0042",
				}},
			},
		}}
		repo := NewPostgresRepository(openStub(conn))

		item, err := repo.GetItem(context.Background(), itemID.String())
		require.NoError(t, err)
		assert.Equal(t, ItemPending, item.Status)
		assert.Equal(t, 10, item.ExpectedQuantity)
		assert.Empty(t, item.Notes)
		assert.Nil(t, item.ActualQuantity)
		assert.Nil(t, item.Variance)
		assert.Nil(t, item.CountedByID)
		assert.Nil(t, item.CountedAt)
		require.NotNil(t, item.Product)
		assert.Equal(t, "GRO-0042", item.Product.SKU)
	})

	t.Run("a counted item carries its note and variance", func(t *testing.T) {
		counter := uuid.New()
		conn := &stubConn{results: map[string]stubRows{
			"FROM audit_items": {
				cols: itemRowColumns(),
				rows: [][]driver.Value{{
					itemID.String(), auditID.String(), productID.String(), inventoryItemID.String(), int64(10),
					int64(7), int64(-3), "DISCREPANCY", "damaged carton", counter.String(), testTime, testTime,
					productID.String(), "Basmati Rice 5kg", "GRO-0042",
				}},
			},
		}}
		repo := NewPostgresRepository(openStub(conn))

		item, err := repo.GetItem(context.Background(), itemID.String())
		require.NoError(t, err)
		assert.Equal(t, ItemDiscrepancy, item.Status)
		assert.Equal(t, "damaged carton", item.Notes)
		require.NotNil(t, item.Variance)
		assert.Equal(t, -3, *item.Variance)
		require.NotNil(t, item.CountedByID)
		assert.Equal(t, counter, *item.CountedByID)
	})

	t.Run("no row maps to not found", func(t *testing.T) {
		repo := NewPostgresRepository(openStub(&stubConn{}))

		_, err := repo.GetItem(context.Background(), uuid.NewString())
		assert.Error(t, err)
	})
}
