package db

import (
	"database/sql/driver"
	"fmt"
)

// ProductUnitCountType определяет, как трактуется ProductUnit.Count
type ProductUnitCountType string

const (
	CountTypeMilligram ProductUnitCountType = "MILLIGRAM"
	CountTypePiece     ProductUnitCountType = "PIECE"
)

var productUnitCountTypes = map[string]ProductUnitCountType{
	"MILLIGRAM": CountTypeMilligram,
	"PIECE":     CountTypePiece,
}

// ParseProductUnitCountType переводит хранимую строку в значение перечисления
func ParseProductUnitCountType(s string) (ProductUnitCountType, error) {
	t, ok := productUnitCountTypes[s]
	if !ok {
		return "", fmt.Errorf("%w: product unit count type %q", ErrInvalidEnum, s)
	}
	return t, nil
}

func (t ProductUnitCountType) Valid() bool {
	_, ok := productUnitCountTypes[string(t)]
	return ok
}

func (t ProductUnitCountType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: product unit count type %q", ErrInvalidEnum, string(t))
	}
	return string(t), nil
}

func (t *ProductUnitCountType) Scan(src any) error {
	s, err := enumString(src)
	if err != nil {
		return fmt.Errorf("scan product unit count type: %w", err)
	}
	parsed, err := ParseProductUnitCountType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// OrderStatus - статус заказа. Переходы между статусами на уровне схемы не проверяются.
type OrderStatus string

const (
	OrderStatusPaymentWaiting  OrderStatus = "PAYMENT_WAITING"
	OrderStatusPaymentChecking OrderStatus = "PAYMENT_CHECKING"
	OrderStatusProcessing      OrderStatus = "PROCESSING"
	OrderStatusCompleted       OrderStatus = "COMPLETED"
	OrderStatusCanceled        OrderStatus = "CANCELED"
)

var orderStatuses = map[string]OrderStatus{
	"PAYMENT_WAITING":  OrderStatusPaymentWaiting,
	"PAYMENT_CHECKING": OrderStatusPaymentChecking,
	"PROCESSING":       OrderStatusProcessing,
	"COMPLETED":        OrderStatusCompleted,
	"CANCELED":         OrderStatusCanceled,
}

// OrderStatuses возвращает все статусы в порядке жизненного цикла заказа
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPaymentWaiting,
		OrderStatusPaymentChecking,
		OrderStatusProcessing,
		OrderStatusCompleted,
		OrderStatusCanceled,
	}
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st, ok := orderStatuses[s]
	if !ok {
		return "", fmt.Errorf("%w: order status %q", ErrInvalidEnum, s)
	}
	return st, nil
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatuses[string(s)]
	return ok
}

// Terminal сообщает, что из статуса нет дальнейшего движения по жизненному циклу
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

func (s OrderStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: order status %q", ErrInvalidEnum, string(s))
	}
	return string(s), nil
}

func (s *OrderStatus) Scan(src any) error {
	str, err := enumString(src)
	if err != nil {
		return fmt.Errorf("scan order status: %w", err)
	}
	parsed, err := ParseOrderStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func enumString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("%w: NULL", ErrInvalidEnum)
	default:
		return "", fmt.Errorf("%w: unsupported source type %T", ErrInvalidEnum, src)
	}
}
