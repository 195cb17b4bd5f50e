package warehouse

import (
	"context"
	"testing"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	warehouses map[uuid.UUID]*Warehouse
	bins       []*Bin
	binIndex   map[uuid.UUID][]uuid.UUID // zone -> bins

	shelfZone      uuid.UUID
	shelfWarehouse uuid.UUID
	resolveErr     error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		warehouses: make(map[uuid.UUID]*Warehouse),
		binIndex:   make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockRepo) CreateWarehouse(ctx context.Context, w *Warehouse) error {
	m.warehouses[w.ID] = w
	return nil
}

func (m *mockRepo) GetWarehouseByID(ctx context.Context, id string) (*Warehouse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("warehouse", id)
	}
	w, ok := m.warehouses[uid]
	if !ok {
		return nil, apperr.NotFound("warehouse", id)
	}
	return w, nil
}

func (m *mockRepo) ListWarehouses(ctx context.Context, activeOnly bool) ([]*Warehouse, error) {
	var out []*Warehouse
	for _, w := range m.warehouses {
		if activeOnly && !w.IsActive {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (m *mockRepo) SetWarehouseActive(ctx context.Context, id string, active bool) error {
	w, err := m.GetWarehouseByID(ctx, id)
	if err != nil {
		return err
	}
	w.IsActive = active
	return nil
}

func (m *mockRepo) CreateZone(ctx context.Context, z *Zone) error { return nil }
func (m *mockRepo) ListZones(ctx context.Context, warehouseID string) ([]*Zone, error) {
	return nil, nil
}
func (m *mockRepo) CreateAisle(ctx context.Context, a *Aisle) error { return nil }
func (m *mockRepo) CreateShelf(ctx context.Context, s *Shelf) error { return nil }

func (m *mockRepo) ResolveShelfZone(ctx context.Context, shelfID string) (uuid.UUID, uuid.UUID, error) {
	if m.resolveErr != nil {
		return uuid.Nil, uuid.Nil, m.resolveErr
	}
	return m.shelfZone, m.shelfWarehouse, nil
}

func (m *mockRepo) CreateBin(ctx context.Context, b *Bin, warehouseID uuid.UUID) error {
	m.bins = append(m.bins, b)
	m.binIndex[b.ZoneID] = append(m.binIndex[b.ZoneID], b.ID)
	return nil
}

func (m *mockRepo) BinsForZones(ctx context.Context, zoneIDs []string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, z := range zoneIDs {
		zid, err := uuid.Parse(z)
		if err != nil {
			continue
		}
		out = append(out, m.binIndex[zid]...)
	}
	return out, nil
}

func TestCreateBin(t *testing.T) {
	t.Run("stamps the resolved zone onto the bin", func(t *testing.T) {
		repo := newMockRepo()
		repo.shelfZone = uuid.New()
		repo.shelfWarehouse = uuid.New()
		svc := NewService(repo)

		b, err := svc.CreateBin(context.Background(), uuid.NewString(), CreateLocationRequest{Name: "Bin 1", Code: "B1"})
		require.NoError(t, err)
		assert.Equal(t, repo.shelfZone, b.ZoneID)
		require.Len(t, repo.bins, 1)
	})

	t.Run("created bins are visible through the zone index", func(t *testing.T) {
		repo := newMockRepo()
		repo.shelfZone = uuid.New()
		svc := NewService(repo)

		first, err := svc.CreateBin(context.Background(), uuid.NewString(), CreateLocationRequest{Name: "Bin 1", Code: "B1"})
		require.NoError(t, err)
		second, err := svc.CreateBin(context.Background(), uuid.NewString(), CreateLocationRequest{Name: "Bin 2", Code: "B2"})
		require.NoError(t, err)

		bins, err := svc.BinsForZones(context.Background(), []string{repo.shelfZone.String()})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, bins)
	})

	t.Run("unresolvable shelf aborts the creation", func(t *testing.T) {
		repo := newMockRepo()
		repo.resolveErr = apperr.NotFound("shelf", "missing")
		svc := NewService(repo)

		_, err := svc.CreateBin(context.Background(), uuid.NewString(), CreateLocationRequest{Name: "Bin", Code: "B"})
		var nfErr *apperr.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
		assert.Empty(t, repo.bins)
	})

	t.Run("requires name and code", func(t *testing.T) {
		svc := NewService(newMockRepo())

		_, err := svc.CreateBin(context.Background(), uuid.NewString(), CreateLocationRequest{Name: "Bin"})
		var valErr *apperr.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})
}

func TestCreateWarehouse(t *testing.T) {
	t.Run("new warehouses start active", func(t *testing.T) {
		repo := newMockRepo()
		svc := NewService(repo)

		w, err := svc.CreateWarehouse(context.Background(), CreateWarehouseRequest{Name: "Main", Code: "WH-01"})
		require.NoError(t, err)
		assert.True(t, w.IsActive)
	})

	t.Run("requires a code", func(t *testing.T) {
		svc := NewService(newMockRepo())

		_, err := svc.CreateWarehouse(context.Background(), CreateWarehouseRequest{Name: "Main"})
		var valErr *apperr.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})
}
