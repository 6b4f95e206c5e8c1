package db

import "time"

// Все внешние ключи объявлены со стороны has-many с OnDelete:RESTRICT:
// удалить строку, на которую ещё ссылаются, нельзя.

// TgOperator - оператор, владеющий ботами
type TgOperator struct {
	ID         int64   `gorm:"primaryKey"`
	TgUsername string  `gorm:"not null;uniqueIndex"`
	TgBots     []TgBot `gorm:"foreignKey:TgOperatorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TgReviewsChannel - канал с отзывами, к которому можно привязать бота
type TgReviewsChannel struct {
	ID         int64   `gorm:"primaryKey"`
	InviteLink string  `gorm:"not null;uniqueIndex"`
	TgBots     []TgBot `gorm:"foreignKey:TgReviewsChannelID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type TgBot struct {
	ID                 int64  `gorm:"primaryKey"`
	Token              string `gorm:"not null;uniqueIndex"`
	TgID               int64  `gorm:"not null;uniqueIndex"`
	TgUsername         string `gorm:"not null;uniqueIndex"`
	IsRunning          bool   `gorm:"not null;default:false"`
	TgOperatorID       int64  `gorm:"not null"`
	TgReviewsChannelID *int64

	TgOperator       *TgOperator       `gorm:"foreignKey:TgOperatorID"`
	TgReviewsChannel *TgReviewsChannel `gorm:"foreignKey:TgReviewsChannelID"`
}

// TgCustomer - покупатель. Username в Telegram необязателен, но уникален, если задан.
type TgCustomer struct {
	ID          int64     `gorm:"primaryKey"`
	TgID        int64     `gorm:"not null;uniqueIndex"`
	TgFirstName string    `gorm:"not null"`
	TgLastName  *string
	TgUsername  *string   `gorm:"uniqueIndex"`
	CreatedAt   time.Time `gorm:"<-:create;not null;default:now();autoCreateTime:false"`

	Orders []Order `gorm:"foreignKey:TgCustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type City struct {
	ID        int64      `gorm:"primaryKey"`
	Name      string     `gorm:"not null;uniqueIndex"`
	Districts []District `gorm:"foreignKey:CityID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// District - район города. Одинаковые названия допустимы только в разных городах.
type District struct {
	ID     int64  `gorm:"primaryKey"`
	Name   string `gorm:"not null;uniqueIndex:uq_district_name_city,priority:1"`
	CityID int64  `gorm:"not null;uniqueIndex:uq_district_name_city,priority:2"`

	City                 *City                 `gorm:"foreignKey:CityID"`
	DistrictProductUnits []DistrictProductUnit `gorm:"foreignKey:DistrictID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Orders               []Order               `gorm:"foreignKey:DistrictID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type Product struct {
	ID           int64         `gorm:"primaryKey"`
	Name         string        `gorm:"not null;uniqueIndex"`
	Description  *string       `gorm:"type:text"`
	ProductUnits []ProductUnit `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// ProductUnit - фасовка товара: количество в миллиграммах или штуках
type ProductUnit struct {
	ID        int64                `gorm:"primaryKey"`
	Count     int                  `gorm:"not null"`
	CountType ProductUnitCountType `gorm:"type:varchar(16);not null;check:count_type IN ('MILLIGRAM','PIECE')"`
	ProductID int64                `gorm:"not null"`

	Product              *Product              `gorm:"foreignKey:ProductID"`
	DistrictProductUnits []DistrictProductUnit `gorm:"foreignKey:ProductUnitID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Orders               []Order               `gorm:"foreignKey:ProductUnitID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// DistrictProductUnit - единственное место, где хранится цена фасовки в районе.
// Первичный ключ составной: не больше одной цены на пару (район, фасовка).
type DistrictProductUnit struct {
	DistrictID    int64 `gorm:"primaryKey;autoIncrement:false"`
	ProductUnitID int64 `gorm:"primaryKey;autoIncrement:false"`
	Price         int   `gorm:"not null"`

	District    *District    `gorm:"foreignKey:DistrictID"`
	ProductUnit *ProductUnit `gorm:"foreignKey:ProductUnitID"`
}

type Bank struct {
	ID           int64         `gorm:"primaryKey"`
	Name         string        `gorm:"not null;uniqueIndex"`
	BankAccounts []BankAccount `gorm:"foreignKey:BankID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type BankAccount struct {
	ID          int64   `gorm:"primaryKey"`
	CardNumber  string  `gorm:"not null;uniqueIndex"`
	PhoneNumber *string `gorm:"uniqueIndex"`
	BankID      int64   `gorm:"not null"`

	Bank   *Bank   `gorm:"foreignKey:BankID"`
	Orders []Order `gorm:"foreignKey:BankAccountID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// QiwiWalletAccount - кошелёк Qiwi. Должен быть задан телефон или никнейм.
type QiwiWalletAccount struct {
	ID          int64   `gorm:"primaryKey"`
	PhoneNumber *string `gorm:"uniqueIndex;check:chk_qiwi_wallet_account_contact,(phone_number IS NOT NULL) OR (nickname IS NOT NULL)"`
	Nickname    *string `gorm:"uniqueIndex"`

	Orders []Order `gorm:"foreignKey:QiwiWalletAccountID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Order - заказ. Price фиксируется при создании и не пересчитывается
// по текущей цене DistrictProductUnit.
type Order struct {
	ID                  int64       `gorm:"primaryKey"`
	Price               int         `gorm:"not null"`
	Status              OrderStatus `gorm:"type:varchar(32);not null;default:'PAYMENT_WAITING';check:status IN ('PAYMENT_WAITING','PAYMENT_CHECKING','PROCESSING','COMPLETED','CANCELED')"`
	CreatedAt           time.Time   `gorm:"<-:create;not null;default:now();autoCreateTime:false"`
	TgCustomerID        int64       `gorm:"not null;index"`
	DistrictID          int64       `gorm:"not null"`
	ProductUnitID       int64       `gorm:"not null"`
	BankAccountID       *int64      `gorm:"check:chk_order_payment_account,(bank_account_id IS NOT NULL) OR (qiwi_wallet_account_id IS NOT NULL)"`
	QiwiWalletAccountID *int64

	TgCustomer        *TgCustomer        `gorm:"foreignKey:TgCustomerID"`
	District          *District          `gorm:"foreignKey:DistrictID"`
	ProductUnit       *ProductUnit       `gorm:"foreignKey:ProductUnitID"`
	BankAccount       *BankAccount       `gorm:"foreignKey:BankAccountID"`
	QiwiWalletAccount *QiwiWalletAccount `gorm:"foreignKey:QiwiWalletAccountID"`
}

func (TgOperator) TableName() string          { return "tg_operator" }
func (TgReviewsChannel) TableName() string    { return "tg_reviews_channel" }
func (TgBot) TableName() string               { return "tg_bot" }
func (TgCustomer) TableName() string          { return "tg_customer" }
func (City) TableName() string                { return "city" }
func (District) TableName() string            { return "district" }
func (Product) TableName() string             { return "product" }
func (ProductUnit) TableName() string         { return "product_unit" }
func (DistrictProductUnit) TableName() string { return "district_product_unit" }
func (Bank) TableName() string                { return "bank" }
func (BankAccount) TableName() string         { return "bank_account" }
func (QiwiWalletAccount) TableName() string   { return "qiwi_wallet_account" }
func (Order) TableName() string               { return "order" }

// Models перечисляет все таблицы схемы для миграции
func Models() []any {
	return []any{
		&TgOperator{},
		&TgReviewsChannel{},
		&TgBot{},
		&TgCustomer{},
		&City{},
		&District{},
		&Product{},
		&ProductUnit{},
		&DistrictProductUnit{},
		&Bank{},
		&BankAccount{},
		&QiwiWalletAccount{},
		&Order{},
	}
}

// Validate проверяет перечисления до записи в БД
func (u *ProductUnit) Validate() error {
	if !u.CountType.Valid() {
		return fmtInvalid("product unit count type", string(u.CountType))
	}
	return nil
}

// Validate допускает пустой статус: при создании его подставит значение по умолчанию
func (o *Order) Validate() error {
	if o.Status != "" && !o.Status.Valid() {
		return fmtInvalid("order status", string(o.Status))
	}
	return nil
}
