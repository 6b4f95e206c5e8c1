package db

import (
	"context"
	"fmt"
)

// CreateOrder сохраняет заказ с ценой, которую передал вызывающий.
// Статус по умолчанию PAYMENT_WAITING, created_at ставит СУБД.
func (s *Store) CreateOrder(ctx context.Context, o *Order) error {
	return Create(ctx, s, o)
}

type PlaceOrderParams struct {
	TgCustomerID        int64
	DistrictID          int64
	ProductUnitID       int64
	BankAccountID       *int64
	QiwiWalletAccountID *int64
}

// PlaceOrder создаёт заказ по текущей цене фасовки в районе. Цена копируется
// в заказ и дальше от каталога не зависит.
func (s *Store) PlaceOrder(ctx context.Context, p PlaceOrderParams) (*Order, error) {
	var order *Order
	err := s.Transaction(ctx, func(tx *Store) error {
		price, err := tx.PriceFor(ctx, p.DistrictID, p.ProductUnitID)
		if err != nil {
			return err
		}
		o := &Order{
			Price:               price,
			TgCustomerID:        p.TgCustomerID,
			DistrictID:          p.DistrictID,
			ProductUnitID:       p.ProductUnitID,
			BankAccountID:       p.BankAccountID,
			QiwiWalletAccountID: p.QiwiWalletAccountID,
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return order, nil
}

// UpdateOrderStatus меняет статус без проверки допустимости перехода
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatus) error {
	if !status.Valid() {
		return fmtInvalid("order status", string(status))
	}
	res := s.db.WithContext(ctx).Model(&Order{}).Where("id = ?", orderID).Update("status", status)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("order", orderID)
	}
	return nil
}

// OrderDetails загружает заказ со всеми связанными строками
func (s *Store) OrderDetails(ctx context.Context, orderID int64) (*Order, error) {
	return Get[Order](ctx, s, orderID,
		"TgCustomer", "District.City", "ProductUnit.Product", "BankAccount.Bank", "QiwiWalletAccount")
}

func (s *Store) OrdersOfCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("ProductUnit.Product").
		Preload("District.City").
		Where("tg_customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (s *Store) OrdersByStatus(ctx context.Context, status OrderStatus) ([]Order, error) {
	if !status.Valid() {
		return nil, fmtInvalid("order status", string(status))
	}
	var orders []Order
	err := s.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&orders).Error
	return orders, err
}

// CountOrdersByStatus считает заказы по статусам; отсутствующие статусы дают 0
func (s *Store) CountOrdersByStatus(ctx context.Context) (map[OrderStatus]int64, error) {
	var rows []struct {
		Status OrderStatus
		Total  int64
	}
	err := s.db.WithContext(ctx).Model(&Order{}).
		Select("status, count(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[OrderStatus]int64, len(orderStatuses))
	for _, st := range OrderStatuses() {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
