package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/db/models"
	"github.com/revoa/analytics-backend/pkg/enums"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ad_accounts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  platform TEXT NOT NULL,
  external_account_id TEXT NOT NULL,
  name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  currency TEXT NOT NULL DEFAULT 'USD',
  last_synced_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS ad_campaigns (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  external_id TEXT NOT NULL,
  name TEXT NOT NULL,
  status TEXT NOT NULL,
  objective TEXT,
  daily_budget_cents INTEGER NOT NULL DEFAULT 0,
  lifetime_budget_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS ad_sets (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  external_id TEXT NOT NULL,
  name TEXT NOT NULL,
  status TEXT NOT NULL,
  daily_budget_cents INTEGER NOT NULL DEFAULT 0,
  targeting TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS ads (
  id TEXT PRIMARY KEY,
  ad_set_id TEXT NOT NULL,
  external_id TEXT NOT NULL,
  name TEXT NOT NULL,
  status TEXT NOT NULL,
  creative_type TEXT NOT NULL DEFAULT 'image',
  thumbnail_url TEXT,
  video_url TEXT,
  headline TEXT,
  body TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS ad_metrics (
  id TEXT PRIMARY KEY,
  entity_type TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  date TEXT NOT NULL,
  spend REAL NOT NULL DEFAULT 0,
  impressions INTEGER NOT NULL DEFAULT 0,
  clicks INTEGER NOT NULL DEFAULT 0,
  conversions REAL NOT NULL DEFAULT 0,
  conversion_value REAL NOT NULL DEFAULT 0,
  cogs REAL,
  profit REAL,
  profit_margin REAL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS shopify_orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  external_order_number TEXT NOT NULL,
  total_price REAL NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  ordered_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  title TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_cost REAL,
  unit_price REAL NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedAdHierarchy(t *testing.T, db *gorm.DB, userID uuid.UUID) (accountID, adID uuid.UUID) {
	t.Helper()
	accountID = uuid.New()
	campaignID := uuid.New()
	adSetID := uuid.New()
	adID = uuid.New()

	require.NoError(t, db.Create(&models.AdAccount{
		ID: accountID, UserID: userID, Platform: enums.AdPlatformFacebook,
		ExternalAccountID: "act_1", Name: "Main", Status: enums.AdAccountStatusActive,
	}).Error)
	require.NoError(t, db.Create(&models.AdCampaign{
		ID: campaignID, AccountID: accountID, ExternalID: "c-1", Name: "Campaign One", Status: "active",
	}).Error)
	require.NoError(t, db.Create(&models.AdSet{
		ID: adSetID, CampaignID: campaignID, ExternalID: "s-1", Name: "Set One", Status: "active",
	}).Error)
	require.NoError(t, db.Create(&models.Ad{
		ID: adID, AdSetID: adSetID, ExternalID: "a-1", Name: "Ad One", Status: "active", CreativeType: "video",
	}).Error)
	return accountID, adID
}

func TestFindAccountsByPlatformSkipsInactive(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db, 0)
	userID := uuid.New()

	require.NoError(t, db.Create(&models.AdAccount{
		ID: uuid.New(), UserID: userID, Platform: enums.AdPlatformFacebook,
		ExternalAccountID: "act_1", Name: "Active", Status: enums.AdAccountStatusActive,
	}).Error)
	require.NoError(t, db.Create(&models.AdAccount{
		ID: uuid.New(), UserID: userID, Platform: enums.AdPlatformFacebook,
		ExternalAccountID: "act_2", Name: "Gone", Status: enums.AdAccountStatusDisconnected,
	}).Error)

	got, err := repo.FindAccountsByPlatform(context.Background(), userID, enums.AdPlatformFacebook)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Active", got[0].Name)
}

func TestFindAdsByAccountsJoinsAncestry(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db, 0)
	userID := uuid.New()
	accountID, adID := seedAdHierarchy(t, db, userID)

	got, err := repo.FindAdsByAccounts(context.Background(), []uuid.UUID{accountID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, adID, got[0].AdID)
	assert.Equal(t, enums.AdPlatformFacebook, got[0].Platform)
	assert.Equal(t, "Campaign One", got[0].CampaignName)
	assert.Equal(t, "Set One", got[0].AdSetName)
	assert.Equal(t, "video", got[0].CreativeType)
}

func TestFindMetricRowsBatchesLargeIDLists(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db, 0)

	// 250 entity ids forces three IN-list chunks at the default batch size.
	ids := make([]uuid.UUID, 250)
	rows := make([]models.AdMetric, 250)
	for i := range ids {
		ids[i] = uuid.New()
		rows[i] = models.AdMetric{
			ID: uuid.New(), EntityType: enums.MetricEntityAd, EntityID: ids[i],
			Date: "2026-08-01", Spend: 1,
		}
	}
	require.NoError(t, db.CreateInBatches(&rows, 100).Error)

	got, err := repo.FindMetricRows(context.Background(), enums.MetricEntityAd, ids, "2026-08-01", "2026-08-07")
	require.NoError(t, err)
	assert.Len(t, got, 250)
}

func TestFindMetricRowsHonorsConfiguredBatchSize(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db, 1)

	// A batch size of 1 turns three ids into three single-id chunks; every
	// row must still come back.
	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, db.Create(&models.AdMetric{
			ID: uuid.New(), EntityType: enums.MetricEntityAd, EntityID: ids[i],
			Date: "2026-08-01", Spend: float64(i + 1),
		}).Error)
	}

	got, err := repo.FindMetricRows(context.Background(), enums.MetricEntityAd, ids, "2026-08-01", "2026-08-07")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestFindDailyOrderFinancials(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db, 0)
	userID := uuid.New()

	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)

	orderA := uuid.New()
	orderB := uuid.New()
	require.NoError(t, db.Create(&models.ShopifyOrder{
		ID: orderA, UserID: userID, ExternalOrderNumber: "1001",
		TotalPrice: decimal.NewFromInt(100), OrderedAt: day1,
	}).Error)
	require.NoError(t, db.Create(&models.ShopifyOrder{
		ID: orderB, UserID: userID, ExternalOrderNumber: "1002",
		TotalPrice: decimal.NewFromInt(50), OrderedAt: day2,
	}).Error)

	cost := decimal.NewFromInt(10)
	require.NoError(t, db.Create(&models.OrderLineItem{
		ID: uuid.New(), OrderID: orderA, Title: "sku", Quantity: 3,
		UnitCost: &cost, UnitPrice: decimal.NewFromInt(30),
	}).Error)

	got, err := repo.FindDailyOrderFinancials(context.Background(), userID, "2026-08-01", "2026-08-07")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-08-01", got[0].Date)
	assert.InDelta(t, 100.0, got[0].Revenue, 0.001)
	assert.InDelta(t, 30.0, got[0].COGS, 0.001)
	assert.Equal(t, "2026-08-02", got[1].Date)
	assert.InDelta(t, 0.0, got[1].COGS, 0.001, "order without line items contributes zero cogs")
}

func TestUpdateMetricProfitTouchesOnlyEnrichmentColumns(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db, 0)

	metricID := uuid.New()
	require.NoError(t, db.Create(&models.AdMetric{
		ID: metricID, EntityType: enums.MetricEntityAd, EntityID: uuid.New(),
		Date: "2026-08-01", Spend: 40, ConversionValue: 100,
	}).Error)

	require.NoError(t, repo.UpdateMetricProfit(context.Background(), metricID, 25, 35, 35))

	var row models.AdMetric
	require.NoError(t, db.First(&row, "id = ?", metricID).Error)
	require.NotNil(t, row.COGS)
	assert.InDelta(t, 25.0, *row.COGS, 0.001)
	require.NotNil(t, row.Profit)
	assert.InDelta(t, 35.0, *row.Profit, 0.001)
	assert.InDelta(t, 40.0, row.Spend, 0.001, "fact columns untouched")
	assert.InDelta(t, 100.0, row.ConversionValue, 0.001)
}

func TestFindMetricRowsOrdersByDate(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db, 0)

	entityID := uuid.New()
	for i, date := range []string{"2026-08-03", "2026-08-01", "2026-08-02"} {
		require.NoError(t, db.Create(&models.AdMetric{
			ID: uuid.New(), EntityType: enums.MetricEntityAd, EntityID: entityID,
			Date: date, Spend: float64(i),
		}).Error)
	}

	got, err := repo.FindMetricRows(context.Background(), enums.MetricEntityAd, []uuid.UUID{entityID}, "2026-08-01", "2026-08-07")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 0; i < len(got)-1; i++ {
		assert.LessOrEqual(t, got[i].Date, got[i+1].Date, fmt.Sprintf("row %d out of order", i))
	}
}
