//go:build integration

package db_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"murshop24/internal/db"
)

var testDSN string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("murshop24"),
		tcpostgres.WithUsername("murshop"),
		tcpostgres.WithPassword("secret"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Fatalf("failed to start postgres container: %v", err)
	}
	testDSN, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		log.Fatalf("failed to get postgres connection string: %v", err)
	}
	code := m.Run()
	if err := testcontainers.TerminateContainer(container); err != nil {
		log.Printf("failed to terminate postgres container: %v", err)
	}
	os.Exit(code)
}

type StoreSuite struct {
	suite.Suite
	store *db.Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupSuite() {
	s.ctx = context.Background()
	store, err := db.Open(testDSN, db.DefaultOptions())
	s.Require().NoError(err)
	s.store = store
	s.Require().NoError(s.store.Migrate(s.ctx))
	// повторная миграция не должна ломать схему
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *StoreSuite) TearDownSuite() {
	s.Require().NoError(s.store.Close())
}

func (s *StoreSuite) SetupTest() {
	err := s.store.DB().Exec(`TRUNCATE "order", district_product_unit, product_unit, product, district, city,
		bank_account, bank, qiwi_wallet_account, tg_bot, tg_reviews_channel, tg_operator, tg_customer
		RESTART IDENTITY CASCADE`).Error
	s.Require().NoError(err)
}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	customer *db.TgCustomer
	city     *db.City
	district *db.District
	product  *db.Product
	unit     *db.ProductUnit
	bank     *db.BankAccount
	qiwi     *db.QiwiWalletAccount
}

func (s *StoreSuite) seed() fixture {
	var f fixture
	f.customer = &db.TgCustomer{TgID: 1001, TgFirstName: "Ivan"}
	s.Require().NoError(db.Create(s.ctx, s.store, f.customer))
	f.city = &db.City{Name: "Moscow"}
	s.Require().NoError(db.Create(s.ctx, s.store, f.city))
	f.district = &db.District{Name: "Center", CityID: f.city.ID}
	s.Require().NoError(db.Create(s.ctx, s.store, f.district))
	f.product = &db.Product{Name: "Tea", Description: ptr("green")}
	s.Require().NoError(db.Create(s.ctx, s.store, f.product))
	f.unit = &db.ProductUnit{Count: 1500, CountType: db.CountTypeMilligram, ProductID: f.product.ID}
	s.Require().NoError(db.Create(s.ctx, s.store, f.unit))
	s.Require().NoError(s.store.CreateDistrictProductUnit(s.ctx, &db.DistrictProductUnit{
		DistrictID: f.district.ID, ProductUnitID: f.unit.ID, Price: 2500,
	}))
	bank := &db.Bank{Name: "Sber"}
	s.Require().NoError(db.Create(s.ctx, s.store, bank))
	f.bank = &db.BankAccount{CardNumber: "2200000000000001", BankID: bank.ID}
	s.Require().NoError(db.Create(s.ctx, s.store, f.bank))
	f.qiwi = &db.QiwiWalletAccount{Nickname: ptr("shopwallet")}
	s.Require().NoError(db.Create(s.ctx, s.store, f.qiwi))
	return f
}

func (s *StoreSuite) newOperator(name string) *db.TgOperator {
	op := &db.TgOperator{TgUsername: name}
	s.Require().NoError(db.Create(s.ctx, s.store, op))
	return op
}

func (s *StoreSuite) TestBotDefaultsAndLookups() {
	op := s.newOperator("operator")
	bot := &db.TgBot{Token: "1:AAA", TgID: 1, TgUsername: "shop_bot", TgOperatorID: op.ID}
	s.Require().NoError(db.Create(s.ctx, s.store, bot))
	s.NotZero(bot.ID)
	s.False(bot.IsRunning)

	got, err := s.store.BotByToken(s.ctx, "1:AAA")
	s.Require().NoError(err)
	s.False(got.IsRunning)
	s.Equal("shop_bot", got.String())

	s.Require().NoError(s.store.SetBotRunning(s.ctx, bot.ID, true))
	running, err := s.store.RunningBots(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(running, 1)
	s.Equal("operator", running[0].TgOperator.String())
	s.Nil(running[0].TgReviewsChannel)

	s.ErrorIs(s.store.SetBotRunning(s.ctx, 999, true), db.ErrNotFound)
	_, err = s.store.BotByTgID(s.ctx, 404)
	s.ErrorIs(err, db.ErrNotFound)
}

func (s *StoreSuite) TestBotUniqueColumns() {
	op := s.newOperator("operator")
	s.Require().NoError(db.Create(s.ctx, s.store, &db.TgBot{Token: "t1", TgID: 1, TgUsername: "bot1", TgOperatorID: op.ID}))

	dups := []db.TgBot{
		{Token: "t1", TgID: 2, TgUsername: "bot2", TgOperatorID: op.ID},
		{Token: "t2", TgID: 1, TgUsername: "bot2", TgOperatorID: op.ID},
		{Token: "t2", TgID: 2, TgUsername: "bot1", TgOperatorID: op.ID},
	}
	for i := range dups {
		err := db.Create(s.ctx, s.store, &dups[i])
		s.ErrorIs(err, db.ErrUniqueViolation, "case %d", i)
		s.NotEmpty(db.ConstraintName(err))
	}
}

func (s *StoreSuite) TestConcurrentBotTokenInsert() {
	op := s.newOperator("operator")
	const goroutines = 20

	var wg sync.WaitGroup
	var ok, conflicts atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := db.Create(s.ctx, s.store, &db.TgBot{
				Token:        "same-token",
				TgID:         int64(100 + i),
				TgUsername:   fmt.Sprintf("bot_%d", i),
				TgOperatorID: op.ID,
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, db.ErrUniqueViolation):
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), ok.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *StoreSuite) TestBotForeignKeys() {
	err := db.Create(s.ctx, s.store, &db.TgBot{Token: "t", TgID: 1, TgUsername: "b", TgOperatorID: 404})
	s.ErrorIs(err, db.ErrForeignKeyViolation)

	op := s.newOperator("operator")
	channel := &db.TgReviewsChannel{InviteLink: "https://t.me/+reviews"}
	s.Require().NoError(db.Create(s.ctx, s.store, channel))
	s.Require().NoError(db.Create(s.ctx, s.store, &db.TgBot{
		Token: "t", TgID: 1, TgUsername: "b", TgOperatorID: op.ID, TgReviewsChannelID: &channel.ID,
	}))

	s.ErrorIs(db.Delete[db.TgOperator](s.ctx, s.store, op.ID), db.ErrForeignKeyViolation)
	s.ErrorIs(db.Delete[db.TgReviewsChannel](s.ctx, s.store, channel.ID), db.ErrForeignKeyViolation)

	bots, err := s.store.BotsOfOperator(s.ctx, op.ID)
	s.Require().NoError(err)
	s.Require().Len(bots, 1)
	s.Equal("https://t.me/+reviews", bots[0].TgReviewsChannel.String())
}

func (s *StoreSuite) TestCustomerUsernameUniqueWhenPresent() {
	s.Require().NoError(db.Create(s.ctx, s.store, &db.TgCustomer{TgID: 1, TgFirstName: "A"}))
	s.Require().NoError(db.Create(s.ctx, s.store, &db.TgCustomer{TgID: 2, TgFirstName: "B"}))
	s.Require().NoError(db.Create(s.ctx, s.store, &db.TgCustomer{TgID: 3, TgFirstName: "C", TgUsername: ptr("c")}))

	err := db.Create(s.ctx, s.store, &db.TgCustomer{TgID: 4, TgFirstName: "D", TgUsername: ptr("c")})
	s.ErrorIs(err, db.ErrUniqueViolation)
	err = db.Create(s.ctx, s.store, &db.TgCustomer{TgID: 1, TgFirstName: "E"})
	s.ErrorIs(err, db.ErrUniqueViolation)
}

func (s *StoreSuite) TestUpsertCustomer() {
	c := &db.TgCustomer{TgID: 77, TgFirstName: "Old"}
	s.Require().NoError(s.store.UpsertCustomer(s.ctx, c))
	s.NotZero(c.ID)
	s.False(c.CreatedAt.IsZero())
	firstID, createdAt := c.ID, c.CreatedAt

	again := &db.TgCustomer{TgID: 77, TgFirstName: "New", TgLastName: ptr("Name"), TgUsername: ptr("newname")}
	s.Require().NoError(s.store.UpsertCustomer(s.ctx, again))
	s.Equal(firstID, again.ID)

	got, err := s.store.CustomerByTgID(s.ctx, 77)
	s.Require().NoError(err)
	s.Equal("New Name @newname", got.String())
	s.WithinDuration(createdAt, got.CreatedAt, time.Millisecond)
}

func (s *StoreSuite) TestDistrictNameUniquePerCity() {
	moscow := &db.City{Name: "Moscow"}
	spb := &db.City{Name: "Saint Petersburg"}
	s.Require().NoError(db.Create(s.ctx, s.store, moscow))
	s.Require().NoError(db.Create(s.ctx, s.store, spb))

	s.Require().NoError(db.Create(s.ctx, s.store, &db.District{Name: "Center", CityID: moscow.ID}))
	s.Require().NoError(db.Create(s.ctx, s.store, &db.District{Name: "Center", CityID: spb.ID}))

	err := db.Create(s.ctx, s.store, &db.District{Name: "Center", CityID: moscow.ID})
	s.ErrorIs(err, db.ErrUniqueViolation)
	s.Equal("uq_district_name_city", db.ConstraintName(err))

	s.ErrorIs(db.Create(s.ctx, s.store, &db.City{Name: "Moscow"}), db.ErrUniqueViolation)

	d, err := s.store.DistrictByName(s.ctx, spb.ID, "Center")
	s.Require().NoError(err)
	s.Equal("Saint Petersburg, Center", d.String())

	districts, err := s.store.DistrictsOfCity(s.ctx, moscow.ID)
	s.Require().NoError(err)
	s.Len(districts, 1)
}

func (s *StoreSuite) TestDeleteCityWithDistrictsFails() {
	city := &db.City{Name: "Kazan"}
	s.Require().NoError(db.Create(s.ctx, s.store, city))
	district := &db.District{Name: "Vahitovsky", CityID: city.ID}
	s.Require().NoError(db.Create(s.ctx, s.store, district))

	err := db.Delete[db.City](s.ctx, s.store, city.ID)
	s.ErrorIs(err, db.ErrForeignKeyViolation)

	_, err = db.Get[db.District](s.ctx, s.store, district.ID)
	s.Require().NoError(err, "district must survive the failed delete")

	s.Require().NoError(db.Delete[db.District](s.ctx, s.store, district.ID))
	s.Require().NoError(db.Delete[db.City](s.ctx, s.store, city.ID))
	s.ErrorIs(db.Delete[db.City](s.ctx, s.store, city.ID), db.ErrNotFound)
}

func (s *StoreSuite) TestDistrictProductUnitPrimaryKey() {
	f := s.seed()

	err := s.store.CreateDistrictProductUnit(s.ctx, &db.DistrictProductUnit{
		DistrictID: f.district.ID, ProductUnitID: f.unit.ID, Price: 9999,
	})
	s.ErrorIs(err, db.ErrUniqueViolation)

	price, err := s.store.PriceFor(s.ctx, f.district.ID, f.unit.ID)
	s.Require().NoError(err)
	s.Equal(2500, price)

	s.Require().NoError(s.store.UpdateDistrictProductUnitPrice(s.ctx, f.district.ID, f.unit.ID, 3000))
	dpu, err := s.store.DistrictProductUnit(s.ctx, f.district.ID, f.unit.ID)
	s.Require().NoError(err)
	s.Equal(3000, dpu.Price)
	s.Equal("Moscow, Center", dpu.District.String())
	s.Equal("Tea 1.5г", dpu.ProductUnit.String())

	err = s.store.CreateDistrictProductUnit(s.ctx, &db.DistrictProductUnit{DistrictID: 404, ProductUnitID: f.unit.ID, Price: 1})
	s.ErrorIs(err, db.ErrForeignKeyViolation)
}

func (s *StoreSuite) TestSameUnitDifferentPricesPerDistrict() {
	f := s.seed()
	north := &db.District{Name: "North", CityID: f.city.ID}
	s.Require().NoError(db.Create(s.ctx, s.store, north))
	s.Require().NoError(s.store.CreateDistrictProductUnit(s.ctx, &db.DistrictProductUnit{
		DistrictID: north.ID, ProductUnitID: f.unit.ID, Price: 2700,
	}))

	p1, err := s.store.PriceFor(s.ctx, f.district.ID, f.unit.ID)
	s.Require().NoError(err)
	p2, err := s.store.PriceFor(s.ctx, north.ID, f.unit.ID)
	s.Require().NoError(err)
	s.Equal(2500, p1)
	s.Equal(2700, p2)
}

func (s *StoreSuite) TestDerivedDistrictProductUnitViews() {
	f := s.seed()
	pieces := &db.ProductUnit{Count: 3, CountType: db.CountTypePiece, ProductID: f.product.ID}
	s.Require().NoError(db.Create(s.ctx, s.store, pieces))
	other := &db.Product{Name: "Coffee"}
	s.Require().NoError(db.Create(s.ctx, s.store, other))
	north := &db.District{Name: "North", CityID: f.city.ID}
	s.Require().NoError(db.Create(s.ctx, s.store, north))
	s.Require().NoError(s.store.CreateDistrictProductUnit(s.ctx, &db.DistrictProductUnit{
		DistrictID: north.ID, ProductUnitID: pieces.ID, Price: 100,
	}))
	s.Require().NoError(s.store.CreateDistrictProductUnit(s.ctx, &db.DistrictProductUnit{
		DistrictID: north.ID, ProductUnitID: f.unit.ID, Price: 200,
	}))

	units, err := s.store.ProductUnitsOfDistrict(s.ctx, north.ID)
	s.Require().NoError(err)
	s.Require().Len(units, 2)
	s.Equal("Tea 1.5г", units[0].String())
	s.Equal("Tea 3шт", units[1].String())

	districts, err := s.store.DistrictsOfProductUnit(s.ctx, f.unit.ID)
	s.Require().NoError(err)
	s.Len(districts, 2)

	products, err := s.store.ProductsOfDistrict(s.ctx, north.ID)
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal("Tea", products[0].Name)

	offers, err := s.store.OffersOfDistrict(s.ctx, north.ID)
	s.Require().NoError(err)
	s.Len(offers, 2)

	s.Require().NoError(s.store.DeleteDistrictProductUnit(s.ctx, north.ID, pieces.ID))
	units, err = s.store.ProductUnitsOfDistrict(s.ctx, north.ID)
	s.Require().NoError(err)
	s.Len(units, 1)
	s.ErrorIs(s.store.DeleteDistrictProductUnit(s.ctx, north.ID, pieces.ID), db.ErrNotFound)

	s.ErrorIs(db.Delete[db.ProductUnit](s.ctx, s.store, f.unit.ID), db.ErrForeignKeyViolation)
}

func (s *StoreSuite) TestQiwiAccountNeedsPhoneOrNickname() {
	err := db.Create(s.ctx, s.store, &db.QiwiWalletAccount{})
	s.ErrorIs(err, db.ErrCheckViolation)
	s.Equal("chk_qiwi_wallet_account_contact", db.ConstraintName(err))

	s.Require().NoError(db.Create(s.ctx, s.store, &db.QiwiWalletAccount{PhoneNumber: ptr("+70000000001")}))
	s.Require().NoError(db.Create(s.ctx, s.store, &db.QiwiWalletAccount{Nickname: ptr("nick")}))
	s.ErrorIs(db.Create(s.ctx, s.store, &db.QiwiWalletAccount{Nickname: ptr("nick")}), db.ErrUniqueViolation)

	got, err := s.store.QiwiAccountByPhone(s.ctx, "+70000000001")
	s.Require().NoError(err)
	s.Equal("+70000000001", got.String())
}

func (s *StoreSuite) TestBankAccountUniqueness() {
	bank := &db.Bank{Name: "Tinkoff"}
	s.Require().NoError(db.Create(s.ctx, s.store, bank))
	s.ErrorIs(db.Create(s.ctx, s.store, &db.Bank{Name: "Tinkoff"}), db.ErrUniqueViolation)

	s.Require().NoError(db.Create(s.ctx, s.store, &db.BankAccount{CardNumber: "1", BankID: bank.ID}))
	s.Require().NoError(db.Create(s.ctx, s.store, &db.BankAccount{CardNumber: "2", BankID: bank.ID}))
	s.Require().NoError(db.Create(s.ctx, s.store, &db.BankAccount{CardNumber: "3", PhoneNumber: ptr("+7"), BankID: bank.ID}))
	s.ErrorIs(db.Create(s.ctx, s.store, &db.BankAccount{CardNumber: "1", BankID: bank.ID}), db.ErrUniqueViolation)
	s.ErrorIs(db.Create(s.ctx, s.store, &db.BankAccount{CardNumber: "4", PhoneNumber: ptr("+7"), BankID: bank.ID}), db.ErrUniqueViolation)

	accounts, err := s.store.BankAccountsOfBank(s.ctx, bank.ID)
	s.Require().NoError(err)
	s.Len(accounts, 3)
}

func (s *StoreSuite) TestOrderNeedsPaymentAccount() {
	f := s.seed()
	err := s.store.CreateOrder(s.ctx, &db.Order{
		Price: 100, TgCustomerID: f.customer.ID, DistrictID: f.district.ID, ProductUnitID: f.unit.ID,
	})
	s.ErrorIs(err, db.ErrCheckViolation)
	s.Equal("chk_order_payment_account", db.ConstraintName(err))
}

func (s *StoreSuite) TestOrderDefaults() {
	f := s.seed()
	before := time.Now().Add(-time.Minute)
	o := &db.Order{
		Price: 100, TgCustomerID: f.customer.ID, DistrictID: f.district.ID, ProductUnitID: f.unit.ID,
		QiwiWalletAccountID: &f.qiwi.ID,
	}
	s.Require().NoError(s.store.CreateOrder(s.ctx, o))
	s.NotZero(o.ID)

	got, err := s.store.OrderDetails(s.ctx, o.ID)
	s.Require().NoError(err)
	s.Equal(db.OrderStatusPaymentWaiting, got.Status)
	s.True(got.CreatedAt.After(before))
	s.Equal("Ivan", got.TgCustomer.String())
	s.Equal("Moscow, Center", got.District.String())
	s.Equal("Tea 1.5г", got.ProductUnit.String())
	s.Nil(got.BankAccount)
	s.Equal("shopwallet", got.QiwiWalletAccount.String())
}

func (s *StoreSuite) TestPlaceOrderSnapshotsPrice() {
	f := s.seed()
	o, err := s.store.PlaceOrder(s.ctx, db.PlaceOrderParams{
		TgCustomerID: f.customer.ID, DistrictID: f.district.ID, ProductUnitID: f.unit.ID,
		BankAccountID: &f.bank.ID,
	})
	s.Require().NoError(err)
	s.Equal(2500, o.Price)
	s.Equal(db.OrderStatusPaymentWaiting, o.Status)

	s.Require().NoError(s.store.UpdateDistrictProductUnitPrice(s.ctx, f.district.ID, f.unit.ID, 5000))
	got, err := db.Get[db.Order](s.ctx, s.store, o.ID)
	s.Require().NoError(err)
	s.Equal(2500, got.Price, "order keeps the price it was created with")

	_, err = s.store.PlaceOrder(s.ctx, db.PlaceOrderParams{
		TgCustomerID: f.customer.ID, DistrictID: f.district.ID, ProductUnitID: 404, BankAccountID: &f.bank.ID,
	})
	s.ErrorIs(err, db.ErrNotFound)

	_, err = s.store.PlaceOrder(s.ctx, db.PlaceOrderParams{
		TgCustomerID: f.customer.ID, DistrictID: f.district.ID, ProductUnitID: f.unit.ID,
	})
	s.ErrorIs(err, db.ErrCheckViolation)
}

func (s *StoreSuite) TestOrderStatusUpdatesAndCounts() {
	f := s.seed()
	var ids []int64
	for i := 0; i < 3; i++ {
		o, err := s.store.PlaceOrder(s.ctx, db.PlaceOrderParams{
			TgCustomerID: f.customer.ID, DistrictID: f.district.ID, ProductUnitID: f.unit.ID, BankAccountID: &f.bank.ID,
		})
		s.Require().NoError(err)
		ids = append(ids, o.ID)
	}

	s.Require().NoError(s.store.UpdateOrderStatus(s.ctx, ids[0], db.OrderStatusCompleted))
	// переходы на уровне схемы не проверяются
	s.Require().NoError(s.store.UpdateOrderStatus(s.ctx, ids[0], db.OrderStatusCanceled))
	s.Require().NoError(s.store.UpdateOrderStatus(s.ctx, ids[1], db.OrderStatusProcessing))
	s.ErrorIs(s.store.UpdateOrderStatus(s.ctx, ids[2], db.OrderStatus("LOST")), db.ErrInvalidEnum)
	s.ErrorIs(s.store.UpdateOrderStatus(s.ctx, 404, db.OrderStatusProcessing), db.ErrNotFound)

	counts, err := s.store.CountOrdersByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[db.OrderStatus]int64{
		db.OrderStatusPaymentWaiting:  1,
		db.OrderStatusPaymentChecking: 0,
		db.OrderStatusProcessing:      1,
		db.OrderStatusCompleted:       0,
		db.OrderStatusCanceled:        1,
	}, counts)

	canceled, err := s.store.OrdersByStatus(s.ctx, db.OrderStatusCanceled)
	s.Require().NoError(err)
	s.Require().Len(canceled, 1)
	s.Equal(ids[0], canceled[0].ID)

	orders, err := s.store.OrdersOfCustomer(s.ctx, f.customer.ID)
	s.Require().NoError(err)
	s.Len(orders, 3)

	s.ErrorIs(db.Delete[db.TgCustomer](s.ctx, s.store, f.customer.ID), db.ErrForeignKeyViolation)
	s.ErrorIs(db.Delete[db.BankAccount](s.ctx, s.store, f.bank.ID), db.ErrForeignKeyViolation)
}

func (s *StoreSuite) TestInvalidEnumRejectedBeforeWrite() {
	product := &db.Product{Name: "Gum"}
	s.Require().NoError(db.Create(s.ctx, s.store, product))
	err := db.Create(s.ctx, s.store, &db.ProductUnit{Count: 1, CountType: "GRAM", ProductID: product.ID})
	s.ErrorIs(err, db.ErrInvalidEnum)

	units, err := s.store.ProductUnitsOfProduct(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Empty(units)
}

func (s *StoreSuite) TestStorageRejectsUnknownEnumString() {
	product := &db.Product{Name: "Gum"}
	s.Require().NoError(db.Create(s.ctx, s.store, product))
	err := s.store.DB().Exec(`INSERT INTO product_unit (count, count_type, product_id) VALUES (1, 'GRAM', ?)`, product.ID).Error
	s.Require().Error(err)
}

func (s *StoreSuite) TestSaveAndList() {
	p := &db.Product{Name: "Tea"}
	s.Require().NoError(db.Create(s.ctx, s.store, p))
	p.Description = ptr("black")
	s.Require().NoError(db.Save(s.ctx, s.store, p))

	got, err := s.store.ProductByName(s.ctx, "Tea")
	s.Require().NoError(err)
	s.Equal("black", *got.Description)

	list, err := db.List[db.Product](s.ctx, s.store)
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = db.Get[db.Product](s.ctx, s.store, 404)
	s.ErrorIs(err, db.ErrNotFound)
}

func (s *StoreSuite) TestSaveKeepsServerTimestamps() {
	c := &db.TgCustomer{TgID: 501, TgFirstName: "Old"}
	s.Require().NoError(db.Create(s.ctx, s.store, c))
	stored, err := db.Get[db.TgCustomer](s.ctx, s.store, c.ID)
	s.Require().NoError(err)

	s.Require().NoError(db.Save(s.ctx, s.store, &db.TgCustomer{ID: c.ID, TgID: 501, TgFirstName: "New"}))
	got, err := db.Get[db.TgCustomer](s.ctx, s.store, c.ID)
	s.Require().NoError(err)
	s.Equal("New", got.TgFirstName)
	s.WithinDuration(stored.CreatedAt, got.CreatedAt, time.Millisecond)

	f := s.seed()
	o, err := s.store.PlaceOrder(s.ctx, db.PlaceOrderParams{
		TgCustomerID: f.customer.ID, DistrictID: f.district.ID, ProductUnitID: f.unit.ID, BankAccountID: &f.bank.ID,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.store.UpdateOrderStatus(s.ctx, o.ID, db.OrderStatusProcessing))
	before, err := db.Get[db.Order](s.ctx, s.store, o.ID)
	s.Require().NoError(err)

	s.Require().NoError(db.Save(s.ctx, s.store, &db.Order{
		ID: o.ID, Price: 1, TgCustomerID: f.customer.ID, DistrictID: f.district.ID, ProductUnitID: f.unit.ID,
		QiwiWalletAccountID: &f.qiwi.ID,
	}))
	after, err := db.Get[db.Order](s.ctx, s.store, o.ID)
	s.Require().NoError(err)
	s.Equal(1, after.Price)
	s.Equal(db.OrderStatusProcessing, after.Status)
	s.WithinDuration(before.CreatedAt, after.CreatedAt, time.Millisecond)
}

func (s *StoreSuite) TestCreateDoesNotWriteAssociations() {
	city := &db.City{Name: "Omsk"}
	s.Require().NoError(db.Create(s.ctx, s.store, city))
	d := &db.District{Name: "Left Bank", CityID: city.ID, City: &db.City{Name: "Ghost"}}
	s.Require().NoError(db.Create(s.ctx, s.store, d))

	_, err := s.store.CityByName(s.ctx, "Ghost")
	s.ErrorIs(err, db.ErrNotFound)
}
