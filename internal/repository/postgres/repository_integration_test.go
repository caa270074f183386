package postgres_test

import (
	"testing"
	"time"

	gorm "github.com/jinzhu/gorm"
	"github.com/ory/dockertest/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"oms-books-sync/internal/models"
	repo "oms-books-sync/internal/repository"
	pg "oms-books-sync/internal/repository/postgres"
)

type pgEnv struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource
	DB       *gorm.DB
	R        *repo.Repository
}

func upPostgres(t *testing.T) *pgEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_DB=orders",
		"POSTGRES_USER=app",
		"POSTGRES_PASSWORD=app",
	})
	require.NoError(t, err)

	env := &pgEnv{pool: pool, resource: resource}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	require.NoError(t, pool.Retry(func() error {
		db, err := pg.ConnectDB(pg.Config{
			Host:     "localhost",
			Port:     resource.GetPort("5432/tcp"),
			Username: "app",
			Password: "app",
			DbName:   "orders",
			SslMode:  "disable",
		})
		if err != nil {
			return err
		}
		env.DB = db

		if err := pg.Migrate(db); err != nil {
			return err
		}

		env.R = repo.NewRepository(db, nil)
		return nil
	}))
	t.Cleanup(func() { _ = env.DB.Close() })

	return env
}

func order(id string, skus ...string) models.Order {
	o := models.Order{
		OrderID:    id,
		NumOrderID: 1000,
		GeneralInfo: models.GeneralInfo{
			Status:       1,
			ReferenceNum: "REF-" + id,
			ReceivedDate: time.Now().UTC(),
		},
		CustomerInfo: models.CustomerInfo{
			Address: models.Address{FullName: "Jane Roe", EmailAddress: "jane@example.com"},
		},
		TotalsInfo: models.TotalsInfo{
			TotalCharge: decimal.NewFromInt(25),
			Currency:    "GBP",
		},
	}
	for _, sku := range skus {
		o.Items = append(o.Items, models.Item{
			ItemID:       "item-" + sku,
			SKU:          sku,
			Quantity:     2,
			PricePerUnit: decimal.RequireFromString("12.5"),
		})
	}
	return o
}

func Test_Postgres_InsertIfAbsent_Idempotent(t *testing.T) {
	env := upPostgres(t)

	saved, failed := env.R.Orders.InsertIfAbsent([]models.Order{order("a", "SKU-1", "SKU-2"), order("b", "SKU-3")})
	require.Empty(t, failed)
	require.ElementsMatch(t, []string{"a", "b"}, saved)

	changed := order("a", "SKU-9")
	changed.GeneralInfo.ReferenceNum = "CHANGED"
	saved, failed = env.R.Orders.InsertIfAbsent([]models.Order{changed, order("c")})
	require.Empty(t, failed)
	require.Equal(t, []string{"c"}, saved)

	got, err := env.R.Orders.Get("a")
	require.NoError(t, err)
	require.Equal(t, "REF-a", got.GeneralInfo.ReferenceNum)
	require.Equal(t, models.SyncPending, got.SyncStatus)
	require.Len(t, got.Items, 2)
	require.True(t, got.Items[0].PricePerUnit.Equal(decimal.RequireFromString("12.5")))
}

func Test_Postgres_InsertIfAbsent_BadRowDoesNotStopOthers(t *testing.T) {
	env := upPostgres(t)

	bad := order("b", "SKU-2")
	bad.TotalsInfo.Currency = "NOT-A-CURRENCY"

	saved, failed := env.R.Orders.InsertIfAbsent([]models.Order{order("a", "SKU-1"), bad, order("c", "SKU-3")})
	require.ElementsMatch(t, []string{"a", "c"}, saved)
	require.Len(t, failed, 1)
	require.Error(t, failed["b"])

	_, err := env.R.Orders.Get("c")
	require.NoError(t, err)
	_, err = env.R.Orders.Get("b")
	require.True(t, gorm.IsRecordNotFoundError(err))

	var items int
	require.NoError(t, env.DB.Model(&models.Item{}).Where("order_refer = ?", "b").Count(&items).Error)
	require.Zero(t, items)
}

func Test_Postgres_ExistingIDs(t *testing.T) {
	env := upPostgres(t)

	_, failed := env.R.Orders.InsertIfAbsent([]models.Order{order("a"), order("b")})
	require.Empty(t, failed)

	ids, err := env.R.Orders.ExistingIDs([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, ids)

	ids, err = env.R.Orders.ExistingIDs(nil)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func Test_Postgres_Get_NotFound(t *testing.T) {
	env := upPostgres(t)

	_, err := env.R.Orders.Get("missing")
	require.True(t, gorm.IsRecordNotFoundError(err))

	err = env.R.Orders.MarkSynced("missing")
	require.True(t, gorm.IsRecordNotFoundError(err))
}

func Test_Postgres_SyncLifecycle(t *testing.T) {
	env := upPostgres(t)

	_, failed := env.R.Orders.InsertIfAbsent([]models.Order{order("a", "SKU-1"), order("b", "SKU-2")})
	require.Empty(t, failed)

	require.NoError(t, env.R.Orders.MarkFailed("a", "boom"))
	require.NoError(t, env.R.Orders.MarkFailed("a", "boom again"))

	got, err := env.R.Orders.Get("a")
	require.NoError(t, err)
	require.Equal(t, models.SyncFailed, got.SyncStatus)
	require.Equal(t, 2, got.SyncRetries)
	require.Equal(t, "boom again", got.SyncError)

	list, err := env.R.Orders.ListSyncable(2, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "b", list[0].OrderID)

	list, err = env.R.Orders.ListSyncable(3, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, env.R.Orders.ResetForRetry("a"))
	got, err = env.R.Orders.Get("a")
	require.NoError(t, err)
	require.Equal(t, models.SyncPending, got.SyncStatus)
	require.Zero(t, got.SyncRetries)
	require.Empty(t, got.SyncError)

	require.NoError(t, env.R.Orders.SetRemoteInvoiceID("b", "so-77"))
	require.NoError(t, env.R.Orders.MarkSynced("b"))

	got, err = env.R.Orders.FindByRemoteInvoiceID("so-77")
	require.NoError(t, err)
	require.Equal(t, "b", got.OrderID)
	require.Equal(t, models.SyncSynced, got.SyncStatus)
	require.NotNil(t, got.LastSyncedAt)

	synced, err := env.R.Orders.ListByStatus(models.SyncSynced, 0)
	require.NoError(t, err)
	require.Len(t, synced, 1)

	require.NoError(t, env.R.Orders.MarkShipped("b", "TRK-1", true))
	got, err = env.R.Orders.Get("b")
	require.NoError(t, err)
	require.Equal(t, "TRK-1", got.ShippingInfo.TrackingNumber)
	require.True(t, got.Processed)
}

func Test_Postgres_LocationMappings(t *testing.T) {
	env := upPostgres(t)

	m, err := env.R.LocationMappings.Upsert(models.LocationMapping{
		BooksLocationID:   "wh-1",
		BooksLocationName: "Main",
		OMSLocationID:     "loc-1",
		OMSLocationName:   "Default",
	})
	require.NoError(t, err)
	require.Equal(t, "loc-1", m.OMSLocationID)

	m, err = env.R.LocationMappings.Upsert(models.LocationMapping{
		BooksLocationID:   "wh-1",
		BooksLocationName: "Main",
		OMSLocationID:     "loc-2",
		OMSLocationName:   "Overflow",
	})
	require.NoError(t, err)
	require.Equal(t, "loc-2", m.OMSLocationID)

	all, err := env.R.LocationMappings.List()
	require.NoError(t, err)
	require.Len(t, all, 1)

	byOMS, err := env.R.LocationMappings.FindByOMSLocationID("loc-2")
	require.NoError(t, err)
	require.Equal(t, "wh-1", byOMS.BooksLocationID)

	_, err = env.R.LocationMappings.FindByOMSLocationID("loc-1")
	require.True(t, gorm.IsRecordNotFoundError(err))

	_, err = env.R.LocationMappings.Get("wh-9")
	require.True(t, gorm.IsRecordNotFoundError(err))
}
